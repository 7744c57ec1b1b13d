// Package ai adapts the Groq chat-completions API as the fallback
// classification oracle. The oracle is untrusted: responses may be malformed
// or absent, and every caller must be able to proceed without them.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

// Client calls the Groq chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a Groq client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.GroqAPIKey,
		baseURL:    strings.TrimRight(cfg.GroqBaseURL, "/"),
		model:      cfg.GroqModel,
	}
}

// chatRequest is the chat-completions request payload.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completions response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// VerdictDetails carries the oracle's free-form reasoning.
type VerdictDetails struct {
	Analysis    string   `json:"analysis"`
	RedFlags    []string `json:"red_flags"`
	MissingInfo []string `json:"missing_info"`
}

// Verdict is the structured classification returned by the oracle for an
// advisor query. Fields mirror the deterministic result so fusion can merge
// them without translation.
type Verdict struct {
	Status          models.VerificationStatus `json:"status"`
	RiskLevel       models.RiskLevel          `json:"riskLevel"`
	Warnings        []string                  `json:"warnings"`
	Recommendations []string                  `json:"recommendations"`
	Details         *VerdictDetails           `json:"details"`
}

const advisorSystemPrompt = `You are a SEBI (Securities and Exchange Board of India) compliance expert.
Given advisor details and the outcome of deterministic registry and website checks, assess whether the
advisor appears legitimate. Respond with a single JSON object:
{
  "status": "verified" | "suspicious" | "unverified" | "not_found",
  "riskLevel": "low" | "medium" | "high",
  "warnings": ["..."],
  "recommendations": ["..."],
  "details": {"analysis": "...", "red_flags": ["..."], "missing_info": ["..."]}
}`

// ClassifyAdvisor asks the oracle to refine an inconclusive deterministic
// result. Callers must treat any error as a degraded-but-usable outcome and
// keep the deterministic result.
func (c *Client) ClassifyAdvisor(ctx context.Context, query models.AdvisorQuery, deterministic *models.VerificationResult) (*Verdict, error) {
	payload := map[string]interface{}{
		"advisor":              query,
		"deterministic_result": deterministic,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification context: %w", err)
	}

	prompt := "Assess these advisor credentials and prior check results:\n" + string(body)
	content, err := c.complete(ctx, advisorSystemPrompt, prompt, 1000)
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal(extractJSON(content), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse oracle verdict: %w", err)
	}
	if verdict.Status == "" || verdict.RiskLevel == "" {
		return nil, fmt.Errorf("oracle verdict missing status or risk level")
	}
	return &verdict, nil
}

const offerSystemPrompt = `You are an expert financial fraud detector at SEBI (Securities and Exchange Board of India).
Analyze the provided investment offer evidence (form input, document entities, investment details, contact
information and key phrases) for unrealistic returns, pressure tactics, unregistered advisors, inconsistent
contact information and missing SEBI registration. Respond with a single JSON object:
{
  "overallRisk": "high" | "medium" | "low",
  "riskScore": 0-100,
  "riskKeywords": ["..."],
  "recommendations": ["..."],
  "redFlags": ["..."],
  "advisorStatus": "registered" | "unregistered" | "unknown",
  "sebiRegistration": "registration number if found or empty",
  "fraudProbability": 0-100,
  "analysisDetails": "detailed explanation"
}`

// AnalyzeOffer asks the oracle to assess an aggregated offer evidence
// bundle. Errors leave the caller with the deterministic score only.
func (c *Client) AnalyzeOffer(ctx context.Context, evidence models.EvidenceBundle) (*models.RiskAssessment, error) {
	body, err := json.MarshalIndent(evidence, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evidence bundle: %w", err)
	}

	prompt := "Analyze this investment offer for potential fraud:\n" + string(body)
	content, err := c.complete(ctx, offerSystemPrompt, prompt, 2000)
	if err != nil {
		return nil, err
	}

	var assessment models.RiskAssessment
	if err := json.Unmarshal(extractJSON(content), &assessment); err != nil {
		return nil, fmt.Errorf("failed to parse oracle assessment: %w", err)
	}
	if assessment.OverallRisk == "" {
		return nil, fmt.Errorf("oracle assessment missing overall risk")
	}
	return &assessment, nil
}

// complete performs one chat-completions round trip.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from oracle")
	}

	return parsed.Choices[0].Message.Content, nil
}

// extractJSON pulls the outermost JSON object out of a completion, tolerating
// prose the model may wrap around it.
func extractJSON(content string) []byte {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return []byte(content)
	}
	return []byte(content[start : end+1])
}
