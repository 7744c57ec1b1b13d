package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/services"
)

// AnalyzeHandler handles investment-offer analysis requests
type AnalyzeHandler struct {
	offer services.OfferService
	log   logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(offer services.OfferService, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{offer: offer, log: log}
}

// AnalyzeOfferRequest is the offer-analysis request body
type AnalyzeOfferRequest struct {
	FormInput models.FormInput        `json:"formInput"`
	Documents []models.DocumentResult `json:"documents"`
}

func (r AnalyzeOfferRequest) empty() bool {
	f := r.FormInput
	return len(r.Documents) == 0 &&
		strings.TrimSpace(f.Links) == "" &&
		strings.TrimSpace(f.Emails) == "" &&
		strings.TrimSpace(f.CompanyName) == "" &&
		strings.TrimSpace(f.AdvisorName) == "" &&
		strings.TrimSpace(f.ContactInfo) == ""
}

// AnalyzeOffer scores an investment offer from form input and processed
// document evidence
func (h *AnalyzeHandler) AnalyzeOffer(c *gin.Context) {
	var req AnalyzeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if req.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one form field or document is required"})
		return
	}

	analysis, err := h.offer.AnalyzeOffer(c.Request.Context(), req.FormInput, req.Documents)
	if err != nil {
		h.log.Error("offer analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Offer analysis failed"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
