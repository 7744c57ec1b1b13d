package services

import (
	"context"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/registry"
	"github.com/investsafe/advisor-verify-api/internal/repository"
	"github.com/investsafe/advisor-verify-api/internal/scoring"
	"github.com/investsafe/advisor-verify-api/internal/verification"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Verification VerificationService
	Offer        OfferService
	Registry     RegistryService
	Auth         AuthService
}

// VerificationService defines the interface for advisor verification
type VerificationService interface {
	VerifyAdvisor(ctx context.Context, query models.AdvisorQuery) (*models.VerificationResult, error)
}

// OfferService defines the interface for investment-offer analysis
type OfferService interface {
	AnalyzeOffer(ctx context.Context, form models.FormInput, docs []models.DocumentResult) (*models.OfferAnalysis, error)
}

// RegistryService defines the interface for registry snapshot management
type RegistryService interface {
	LoadFromDatabase() error
	LoadFromFile(path string) error
	ImportSnapshot(path string) error
	Size() int
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(email, password string) (*models.LoginResponse, error)
	Register(req *models.RegisterRequest) (*models.User, error)
	ValidateToken(token string) (*models.User, error)
	RefreshToken(token string) (*models.LoginResponse, error)
}

// OfferAnalyzer is the AI oracle contract for offer analysis
type OfferAnalyzer interface {
	AnalyzeOffer(ctx context.Context, evidence models.EvidenceBundle) (*models.RiskAssessment, error)
}

// Dependencies carries the collaborators the service layer is built from
type Dependencies struct {
	Repos    *repository.Repositories
	Registry *registry.Registry
	Verifier *verification.Verifier
	Engine   *scoring.Engine
	Oracle   OfferAnalyzer
	Config   *config.Config
	Logger   logger.Logger
}

// NewServices creates a new Services instance with all dependencies
func NewServices(deps Dependencies) *Services {
	verificationSvc := newVerificationService(deps.Verifier)

	return &Services{
		Verification: verificationSvc,
		Offer:        newOfferService(verificationSvc, deps.Engine, deps.Oracle, deps.Logger),
		Registry:     newRegistryService(deps.Registry, deps.Repos, deps.Logger),
		Auth:         newAuthService(deps.Repos, deps.Config),
	}
}
