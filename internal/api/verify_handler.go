package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/investsafe/advisor-verify-api/internal/errors"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/services"
)

// VerifyHandler handles advisor verification requests
type VerifyHandler struct {
	verification services.VerificationService
	log          logger.Logger
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(verification services.VerificationService, log logger.Logger) *VerifyHandler {
	return &VerifyHandler{verification: verification, log: log}
}

// VerifyAdvisor resolves a claimed advisor identity and returns the fused
// verdict. Input problems are 400, everything else degrades inside the
// result and returns 200.
func (h *VerifyHandler) VerifyAdvisor(c *gin.Context) {
	var query models.AdvisorQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.verification.VerifyAdvisor(c.Request.Context(), query)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeInputError {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		h.log.Error("advisor verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
