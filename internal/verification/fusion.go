// Package verification fuses the local registry, live website lookups,
// fraud heuristics and the AI oracle into one explainable advisor verdict.
package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/ai"
	apperrors "github.com/investsafe/advisor-verify-api/internal/errors"
	"github.com/investsafe/advisor-verify-api/internal/fraud"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/registry"
)

// maxNameMatches caps how many fuzzy candidates are returned to the caller.
const maxNameMatches = 5

// Name-similarity thresholds for the fusion policy. The 0.8 partial-match
// branch optimistically sets isRegistered=true without a corroborating
// registration number; this mirrors the authority's published behavior and
// is flagged as a reviewable policy choice in DESIGN.md.
const (
	strongMatchThreshold  = 0.9
	partialMatchThreshold = 0.8
)

// LiveVerifier confirms an identity against the regulator website.
type LiveVerifier interface {
	Verify(ctx context.Context, query models.AdvisorQuery) *models.VerificationResult
}

// AdvisorClassifier is the AI fallback oracle contract.
type AdvisorClassifier interface {
	ClassifyAdvisor(ctx context.Context, query models.AdvisorQuery, deterministic *models.VerificationResult) (*ai.Verdict, error)
}

// ResultCache caches fused verdicts keyed by normalized identity. Lookups
// and stores are best effort; a broken cache never affects the pipeline.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.VerificationResult, bool)
	Set(ctx context.Context, key string, result *models.VerificationResult)
}

// Verifier is the decision-fusion pipeline. All collaborators are injected;
// live and classifier may be nil, in which case their tiers are skipped with
// an explicit degradation warning where relevant.
type Verifier struct {
	registry   *registry.Registry
	live       LiveVerifier
	classifier AdvisorClassifier
	cache      ResultCache
	log        logger.Logger
}

// NewVerifier constructs the fusion pipeline.
func NewVerifier(reg *registry.Registry, live LiveVerifier, classifier AdvisorClassifier, log logger.Logger) *Verifier {
	return &Verifier{
		registry:   reg,
		live:       live,
		classifier: classifier,
		log:        log,
	}
}

// WithCache attaches a verdict cache.
func (v *Verifier) WithCache(cache ResultCache) *Verifier {
	v.cache = cache
	return v
}

// Verify resolves a claimed advisor identity through the precedence chain:
// local registry, live website, fraud heuristics, AI fallback. It returns an
// error only for unusable input; every upstream failure degrades into the
// returned result instead.
func (v *Verifier) Verify(ctx context.Context, query models.AdvisorQuery) (*models.VerificationResult, error) {
	if !query.HasIdentity() {
		return nil, apperrors.InputError("advisor name or registration identifier is required", nil).
			WithOperation("verification.Verify")
	}

	cacheKey := v.cacheKey(query)
	if v.cache != nil {
		if cached, ok := v.cache.Get(ctx, cacheKey); ok {
			v.log.Debug("verification cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	result := models.NewVerificationResult()
	registryDown := false

	// Tier 1: registration number, the most reliable signal.
	if id := query.Identifier(); id != "" {
		record, err := v.registry.ResolveByRegistration(id)
		switch {
		case errors.Is(err, registry.ErrUnavailable):
			registryDown = true
		case record != nil:
			v.classifyRegistrationMatch(result, record)
			return v.finish(ctx, cacheKey, result), nil
		}
	}

	// Tier 2: fuzzy name match against the snapshot.
	if name := strings.TrimSpace(query.Name); name != "" && !registryDown {
		candidates, err := v.registry.ResolveByName(name, registry.DefaultNameThreshold)
		if errors.Is(err, registry.ErrUnavailable) {
			registryDown = true
		} else if len(candidates) > 0 {
			v.classifyNameMatches(result, candidates)
			return v.finish(ctx, cacheKey, result), nil
		}
	}

	if registryDown {
		result.Warnings = append(result.Warnings, "SEBI advisor database not available")
		result.Recommendations = append(result.Recommendations, "Manual verification required")
	}

	// Tier 3: live verification (includes the fraud heuristics pass).
	if v.live != nil {
		live := v.live.Verify(ctx, query)
		v.mergeLiveResult(result, live)

		switch result.Status {
		case models.StatusVerified, models.StatusSuspicious, models.StatusError:
			return v.finish(ctx, cacheKey, result), nil
		}
	} else {
		// No live tier configured; the fraud heuristics still run.
		if report := fraud.Scan(query); report.IsSuspicious {
			result.Status = models.StatusSuspicious
			result.RiskLevel = models.RiskHigh
			result.Warnings = append(result.Warnings, report.Warnings()...)
			result.Recommendations = append(result.Recommendations, report.Recommendations()...)
			return v.finish(ctx, cacheKey, result), nil
		}
		if registryDown {
			// Nothing left to consult; asserting not_found would
			// overstate confidence, so surface the degraded state.
			result.Status = models.StatusError
			result.RegistrationStatus = "error"
			return v.finish(ctx, cacheKey, result), nil
		}
	}

	if ctx.Err() != nil {
		result.Status = models.StatusError
		result.RegistrationStatus = "error"
		result.Warnings = append(result.Warnings, "Verification aborted: "+ctx.Err().Error())
		return v.finish(ctx, cacheKey, result), nil
	}

	// Tier 4: AI fallback, only for still-inconclusive outcomes.
	v.applyAIFallback(ctx, query, result)

	if result.Status == models.StatusNotFound && len(result.Warnings) == 0 {
		result.Warnings = append(result.Warnings, "Advisor not found in SEBI database")
		result.Recommendations = append(result.Recommendations,
			"Verify advisor credentials manually",
			"Request SEBI registration certificate")
	}

	return v.finish(ctx, cacheKey, result), nil
}

// classifyRegistrationMatch applies the (status, verifiedFlag) policy to an
// exact registration match.
func (v *Verifier) classifyRegistrationMatch(result *models.VerificationResult, record *models.RegistryRecord) {
	result.Details = record
	result.VerificationMethod = "local_registry"

	switch {
	case record.Status == models.RegistryActive && record.Verified:
		result.Status = models.StatusVerified
		result.IsRegistered = true
		result.RegistrationStatus = "active"
		result.RiskLevel = models.RiskLow
		result.Recommendations = append(result.Recommendations, "Advisor found in SEBI database with valid registration")
	case record.Status == models.RegistrySuspended || !record.Verified:
		result.Status = models.StatusSuspicious
		result.RegistrationStatus = "suspended"
		result.RiskLevel = models.RiskHigh
		result.Warnings = append(result.Warnings, "Advisor registration is suspended or invalid")
		result.Recommendations = append(result.Recommendations,
			"DO NOT PROCEED - Advisor may be fraudulent",
			"Report to SEBI if this advisor contacted you")
	default:
		result.Status = models.StatusUnverified
		result.RegistrationStatus = "unknown"
		result.RiskLevel = models.RiskMedium
		result.Warnings = append(result.Warnings, "Unable to verify advisor status")
		result.Recommendations = append(result.Recommendations, "Manual verification required")
	}
}

// classifyNameMatches applies the similarity thresholds to fuzzy candidates.
func (v *Verifier) classifyNameMatches(result *models.VerificationResult, candidates []models.MatchCandidate) {
	matches := candidates
	if len(matches) > maxNameMatches {
		matches = matches[:maxNameMatches]
	}
	result.Matches = matches
	result.VerificationMethod = "local_registry"

	best := matches[0]
	similarity := fmt.Sprintf("%.2f%%", best.Similarity*100)

	switch {
	case best.Similarity >= strongMatchThreshold:
		record := best.Record
		result.Details = &record
		switch {
		case record.Status == models.RegistryActive && record.Verified:
			result.Status = models.StatusVerified
			result.IsRegistered = true
			result.RegistrationStatus = "active"
			result.RiskLevel = models.RiskLow
			result.Recommendations = append(result.Recommendations,
				"Strong name match found (similarity: "+similarity+")")
		case record.Status == models.RegistrySuspended || !record.Verified:
			result.Status = models.StatusSuspicious
			result.RegistrationStatus = "suspended"
			result.RiskLevel = models.RiskHigh
			result.Warnings = append(result.Warnings,
				"Strong name match but advisor is suspended/invalid (similarity: "+similarity+")")
			result.Recommendations = append(result.Recommendations, "DO NOT PROCEED - Advisor may be fraudulent")
		default:
			result.Status = models.StatusUnverified
			result.RegistrationStatus = "unknown"
			result.RiskLevel = models.RiskMedium
			result.Warnings = append(result.Warnings,
				"Name match found but status unclear (similarity: "+similarity+")")
		}
	case best.Similarity >= partialMatchThreshold:
		record := best.Record
		result.Status = models.StatusPartialMatch
		result.IsRegistered = true
		result.RegistrationStatus = "needs_verification"
		result.RiskLevel = models.RiskMedium
		result.Details = &record
		result.Warnings = append(result.Warnings, "Partial name match found (similarity: "+similarity+")")
		result.Recommendations = append(result.Recommendations, "Manual verification recommended due to partial match")
	default:
		result.Status = models.StatusLowConfidence
		result.RiskLevel = models.RiskMedium
		result.Warnings = append(result.Warnings, "Low confidence matches found")
		result.Recommendations = append(result.Recommendations, "Consider manual verification")
	}
}

// mergeLiveResult folds the live-verification outcome into the accumulated
// result. Attempt logs and advisories concatenate; a found outcome adopts
// the live chain's canonical advisory set wholesale.
func (v *Verifier) mergeLiveResult(result *models.VerificationResult, live *models.VerificationResult) {
	result.SearchAttempts = append(result.SearchAttempts, live.SearchAttempts...)

	switch live.Status {
	case models.StatusVerified:
		result.Status = live.Status
		result.IsRegistered = live.IsRegistered
		result.RegistrationStatus = live.RegistrationStatus
		result.RiskLevel = live.RiskLevel
		result.Details = live.Details
		result.VerificationMethod = live.VerificationMethod
		result.Warnings = live.Warnings
		result.Recommendations = live.Recommendations
	case models.StatusSuspicious, models.StatusError:
		result.Status = live.Status
		result.RegistrationStatus = live.RegistrationStatus
		result.RiskLevel = live.RiskLevel
		result.VerificationMethod = live.VerificationMethod
		result.Warnings = append(result.Warnings, live.Warnings...)
		result.Recommendations = append(result.Recommendations, live.Recommendations...)
	default:
		result.VerificationMethod = live.VerificationMethod
		result.Warnings = append(result.Warnings, live.Warnings...)
		result.Recommendations = append(result.Recommendations, live.Recommendations...)
	}
}

// applyAIFallback refines an inconclusive result through the oracle. A
// failed or malformed oracle call annotates the deterministic result and
// leaves it otherwise untouched; suspicious/verified outcomes are never
// downgraded because the fallback only runs for unverified/not_found.
func (v *Verifier) applyAIFallback(ctx context.Context, query models.AdvisorQuery, result *models.VerificationResult) {
	if v.classifier == nil {
		return
	}
	switch result.Status {
	case models.StatusUnverified, models.StatusNotFound:
	default:
		return
	}

	verdict, err := v.classifier.ClassifyAdvisor(ctx, query, result)
	if err != nil {
		v.log.Warn("ai fallback failed", zap.Error(err))
		result.Warnings = append(result.Warnings, "ai_analysis_error: "+err.Error())
		return
	}

	prevStatus, prevRisk := result.Status, result.RiskLevel

	switch verdict.Status {
	case models.StatusVerified, models.StatusSuspicious, models.StatusUnverified, models.StatusNotFound:
		result.Status = verdict.Status
	}
	switch verdict.RiskLevel {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
		result.RiskLevel = verdict.RiskLevel
	}
	// A verified status always means a confirmed, low-risk registration;
	// an oracle verdict that says otherwise is overridden here.
	if result.Status == models.StatusVerified {
		result.IsRegistered = true
		result.RiskLevel = models.RiskLow
	}
	result.Warnings = append(result.Warnings, verdict.Warnings...)
	result.Recommendations = append(result.Recommendations, verdict.Recommendations...)
	if result.Details == nil && verdict.Details != nil {
		result.Details = verdict.Details
	}
	// The method tag records which tier decided; keep the deterministic
	// provenance when the oracle changed nothing material.
	if result.Status != prevStatus || result.RiskLevel != prevRisk {
		result.VerificationMethod = "ai_fallback"
	}
}

// finish stores the fused result in the cache and returns it.
func (v *Verifier) finish(ctx context.Context, key string, result *models.VerificationResult) *models.VerificationResult {
	if v.cache != nil && result.Status != models.StatusError {
		v.cache.Set(ctx, key, result)
	}
	return result
}

// cacheKey derives a stable cache key from the normalized identity plus a
// digest of the heuristic inputs (company, contact details, free text). Two
// queries for the same advisor with different offer text are distinct
// verdicts and must not share a cache entry.
func (v *Verifier) cacheKey(query models.AdvisorQuery) string {
	key := registry.Normalize(query.Name) + "|" + strings.ToUpper(query.Identifier())

	extra := strings.TrimSpace(strings.Join([]string{
		query.CompanyName,
		query.ContactInfo.Email,
		query.ContactInfo.Phone,
		strings.Join(query.FreeText, " "),
	}, " "))
	if extra == "" {
		return key
	}
	sum := sha256.Sum256([]byte(registry.Normalize(extra)))
	return key + "|" + hex.EncodeToString(sum[:8])
}
