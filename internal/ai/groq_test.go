package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

func newOracleStub(t *testing.T, completionContent string, status int) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mixtral-8x7b-32768", req.Model)
		assert.Len(t, req.Messages, 2)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": completionContent}},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		GroqAPIKey:  "test-key",
		GroqBaseURL: server.URL,
		GroqModel:   "mixtral-8x7b-32768",
	}
	return NewClient(cfg)
}

func TestClassifyAdvisor_Success(t *testing.T) {
	verdict := `{
		"status": "unverified",
		"riskLevel": "medium",
		"warnings": ["No corroborating registration found"],
		"recommendations": ["Request registration certificate"],
		"details": {"analysis": "Sparse data", "red_flags": [], "missing_info": ["registration number"]}
	}`
	client := newOracleStub(t, verdict, http.StatusOK)

	result, err := client.ClassifyAdvisor(context.Background(),
		models.AdvisorQuery{Name: "Rajesh Kumar"},
		models.NewVerificationResult())

	require.NoError(t, err)
	assert.Equal(t, models.StatusUnverified, result.Status)
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
	require.NotNil(t, result.Details)
	assert.Equal(t, "Sparse data", result.Details.Analysis)
}

func TestClassifyAdvisor_JSONWrappedInProse(t *testing.T) {
	content := "Here is my assessment:\n{\"status\": \"not_found\", \"riskLevel\": \"high\"}\nLet me know."
	client := newOracleStub(t, content, http.StatusOK)

	result, err := client.ClassifyAdvisor(context.Background(),
		models.AdvisorQuery{Name: "Rajesh Kumar"},
		models.NewVerificationResult())

	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFound, result.Status)
}

func TestClassifyAdvisor_MalformedResponse(t *testing.T) {
	client := newOracleStub(t, "I cannot produce JSON today.", http.StatusOK)

	_, err := client.ClassifyAdvisor(context.Background(),
		models.AdvisorQuery{Name: "Rajesh Kumar"},
		models.NewVerificationResult())

	assert.Error(t, err)
}

func TestClassifyAdvisor_MissingStatus(t *testing.T) {
	client := newOracleStub(t, `{"warnings": []}`, http.StatusOK)

	_, err := client.ClassifyAdvisor(context.Background(),
		models.AdvisorQuery{Name: "Rajesh Kumar"},
		models.NewVerificationResult())

	assert.Error(t, err)
}

func TestClassifyAdvisor_UpstreamError(t *testing.T) {
	client := newOracleStub(t, "", http.StatusInternalServerError)

	_, err := client.ClassifyAdvisor(context.Background(),
		models.AdvisorQuery{Name: "Rajesh Kumar"},
		models.NewVerificationResult())

	assert.Error(t, err)
}

func TestAnalyzeOffer_Success(t *testing.T) {
	assessment := `{
		"overallRisk": "high",
		"riskScore": 85,
		"riskKeywords": ["guaranteed returns"],
		"recommendations": ["Do not invest"],
		"redFlags": ["Unrealistic returns promised"],
		"advisorStatus": "unregistered",
		"fraudProbability": 90,
		"analysisDetails": "Multiple fraud indicators present"
	}`
	client := newOracleStub(t, assessment, http.StatusOK)

	result, err := client.AnalyzeOffer(context.Background(), models.EvidenceBundle{
		KeyPhrases: []string{"guaranteed returns"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, result.OverallRisk)
	assert.Equal(t, 85, result.RiskScore)
	assert.Contains(t, result.RedFlags, "Unrealistic returns promised")
}

func TestAnalyzeOffer_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(&config.Config{GroqAPIKey: "k", GroqBaseURL: server.URL, GroqModel: "m"})
	_, err := client.AnalyzeOffer(context.Background(), models.EvidenceBundle{})
	assert.Error(t, err)
}
