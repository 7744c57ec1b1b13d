package liveverify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
)

// Strategy is one independent live-lookup method. Implementations must be
// self-contained: any internal failure is reported inside the returned
// SearchAttempt, never as a panic or a propagated error.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, query models.AdvisorQuery) models.SearchAttempt
}

// Link text keywords that mark a directory sub-page as advisor-related.
var directoryLinkKeywords = []string{"research analyst", "intermediary", "advisor"}

// candidateLink is one advisor-related sub-page discovered on the directory.
type candidateLink struct {
	URL   string
	Title string
}

// DirectoryStrategy crawls the regulator's intermediaries directory: it
// fetches the listing page, collects advisor-related sub-pages and tests
// each for evidence of the queried identity. Candidate pages are fetched
// with a bounded worker pool; the first hit wins.
type DirectoryStrategy struct {
	client   *Client
	log      logger.Logger
	workers  int
	maxPages int
}

// NewDirectoryStrategy builds the directory-crawl strategy.
func NewDirectoryStrategy(client *Client, log logger.Logger, workers, maxPages int) *DirectoryStrategy {
	if workers <= 0 {
		workers = 4
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	return &DirectoryStrategy{client: client, log: log, workers: workers, maxPages: maxPages}
}

// Name implements Strategy.
func (s *DirectoryStrategy) Name() string { return "intermediaries_page_search" }

// Attempt implements Strategy.
func (s *DirectoryStrategy) Attempt(ctx context.Context, query models.AdvisorQuery) models.SearchAttempt {
	attempt := models.SearchAttempt{Method: s.Name()}

	listingURL := s.client.BaseURL() + "/intermediaries.html"
	doc, err := s.client.Get(ctx, listingURL)
	if err != nil {
		attempt.Error = err.Error()
		s.log.Warn("directory listing fetch failed", zap.String("url", listingURL), zap.Error(err))
		return attempt
	}

	links := s.advisorLinks(doc)
	if len(links) > s.maxPages {
		links = links[:s.maxPages]
	}

	found, err := s.searchCandidates(ctx, links, query)
	if err != nil {
		attempt.Error = err.Error()
		return attempt
	}
	if found != nil {
		attempt.Found = true
		attempt.Details = map[string]interface{}{
			"page_url":   found.URL,
			"page_title": found.Title,
		}
	}

	return attempt
}

// advisorLinks extracts links whose text matches advisor-related keywords.
func (s *DirectoryStrategy) advisorLinks(doc *goquery.Document) []candidateLink {
	var links []candidateLink
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := strings.ToLower(sel.Text())

		for _, keyword := range directoryLinkKeywords {
			if strings.Contains(text, keyword) {
				full := s.client.ResolveURL(href)
				if !seen[full] {
					seen[full] = true
					links = append(links, candidateLink{URL: full, Title: strings.TrimSpace(sel.Text())})
				}
				break
			}
		}
	})

	return links
}

// searchCandidates fetches candidate pages concurrently and returns the
// first one containing evidence of the identity. Individual fetch failures
// are logged and skipped; remaining fetches are cancelled once a page hits.
func (s *DirectoryStrategy) searchCandidates(ctx context.Context, links []candidateLink, query models.AdvisorQuery) (*candidateLink, error) {
	if len(links) == 0 {
		return nil, nil
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, groupCtx := errgroup.WithContext(groupCtx)
	g.SetLimit(s.workers)

	var mu sync.Mutex
	var found *candidateLink

	for i := range links {
		link := links[i]
		g.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			doc, err := s.client.Get(groupCtx, link.URL)
			if err != nil {
				s.log.Debug("candidate page fetch failed", zap.String("url", link.URL), zap.Error(err))
				return nil
			}
			if pageContainsIdentity(doc.Text(), query) {
				mu.Lock()
				if found == nil {
					found = &link
				}
				mu.Unlock()
				cancel()
			}
			return nil
		})
	}

	_ = g.Wait()

	if found == nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return found, nil
}

// SiteSearchStrategy queries the regulator's own search facility, trying the
// registration number first and then the quoted name, applying the same
// page-evidence test to each result page.
type SiteSearchStrategy struct {
	client *Client
	log    logger.Logger
}

// NewSiteSearchStrategy builds the site-search strategy.
func NewSiteSearchStrategy(client *Client, log logger.Logger) *SiteSearchStrategy {
	return &SiteSearchStrategy{client: client, log: log}
}

// Name implements Strategy.
func (s *SiteSearchStrategy) Name() string { return "site_search" }

// Attempt implements Strategy.
func (s *SiteSearchStrategy) Attempt(ctx context.Context, query models.AdvisorQuery) models.SearchAttempt {
	attempt := models.SearchAttempt{Method: s.Name()}

	var queries []string
	if id := query.Identifier(); id != "" {
		queries = append(queries, id)
	}
	if name := strings.TrimSpace(query.Name); name != "" {
		queries = append(queries, fmt.Sprintf("%q", name))
	}

	for _, q := range queries {
		if ctx.Err() != nil {
			attempt.Error = ctx.Err().Error()
			return attempt
		}

		searchURL := s.client.BaseURL() + "/search.html?q=" + url.QueryEscape(q)
		doc, err := s.client.Get(ctx, searchURL)
		if err != nil {
			attempt.Error = err.Error()
			s.log.Warn("site search fetch failed", zap.String("query", q), zap.Error(err))
			continue
		}

		if pageContainsIdentity(doc.Text(), query) {
			attempt.Found = true
			attempt.Error = ""
			attempt.Details = map[string]interface{}{
				"search_query":  q,
				"found_on_page": searchURL,
			}
			return attempt
		}
	}

	return attempt
}

// pageContainsIdentity tests whether page text carries evidence of the
// queried identity: the registration number as an exact substring, or at
// least two distinct whitespace-delimited tokens of the name.
func pageContainsIdentity(pageText string, query models.AdvisorQuery) bool {
	text := strings.ToLower(pageText)

	if id := query.Identifier(); id != "" && strings.Contains(text, strings.ToLower(id)) {
		return true
	}

	tokens := strings.Fields(strings.ToLower(query.Name))
	if len(tokens) < 2 {
		return false
	}

	seen := make(map[string]bool)
	foundTokens := 0
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		if strings.Contains(text, token) {
			foundTokens++
		}
	}
	return foundTokens >= 2
}
