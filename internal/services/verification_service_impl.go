package services

import (
	"context"

	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/verification"
)

// verificationServiceImpl implements VerificationService
type verificationServiceImpl struct {
	verifier *verification.Verifier
}

// newVerificationService creates a new verification service implementation
func newVerificationService(verifier *verification.Verifier) VerificationService {
	return &verificationServiceImpl{verifier: verifier}
}

// VerifyAdvisor resolves a claimed advisor identity through the fusion pipeline
func (s *verificationServiceImpl) VerifyAdvisor(ctx context.Context, query models.AdvisorQuery) (*models.VerificationResult, error) {
	return s.verifier.Verify(ctx, query)
}
