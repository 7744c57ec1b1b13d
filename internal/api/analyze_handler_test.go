package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
)

type stubOfferService struct {
	analysis *models.OfferAnalysis
	err      error
	form     models.FormInput
	docs     []models.DocumentResult
}

func (s *stubOfferService) AnalyzeOffer(ctx context.Context, form models.FormInput, docs []models.DocumentResult) (*models.OfferAnalysis, error) {
	s.form = form
	s.docs = docs
	return s.analysis, s.err
}

func newAnalyzeRouter(svc *stubOfferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAnalyzeHandler(svc, logger.NewNop())
	r.POST("/api/v1/offer/analyze", handler.AnalyzeOffer)
	return r
}

func TestAnalyzeOffer_Success(t *testing.T) {
	svc := &stubOfferService{analysis: &models.OfferAnalysis{
		Assessment: models.RiskAssessment{
			OverallRisk: models.RiskHigh,
			RiskScore:   75,
			RedFlags:    []string{"Marketing language typical of fraudulent schemes"},
		},
	}}
	router := newAnalyzeRouter(svc)

	body, _ := json.Marshal(gin.H{
		"formInput": gin.H{"advisorName": "Rajesh Kumar", "companyName": "Acme Capital"},
		"documents": []gin.H{
			{"success": true, "key_phrases": []string{"guaranteed returns"}},
		},
	})
	req := httptest.NewRequest("POST", "/api/v1/offer/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rajesh Kumar", svc.form.AdvisorName)
	require.Len(t, svc.docs, 1)

	var resp models.OfferAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RiskHigh, resp.Assessment.OverallRisk)
}

func TestAnalyzeOffer_EmptySubmission(t *testing.T) {
	router := newAnalyzeRouter(&stubOfferService{})

	req := httptest.NewRequest("POST", "/api/v1/offer/analyze", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "At least one form field or document is required")
}

func TestAnalyzeOffer_MalformedJSON(t *testing.T) {
	router := newAnalyzeRouter(&stubOfferService{})

	req := httptest.NewRequest("POST", "/api/v1/offer/analyze", bytes.NewReader([]byte(`[`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
