package repository

import (
	"github.com/google/uuid"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

// AdvisorRepository defines the interface for registry snapshot storage
type AdvisorRepository interface {
	GetAll() ([]models.RegistryRecord, error)
	Count() (int, error)
	ReplaceAll(records []models.RegistryRecord) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Advisor AdvisorRepository
	User    UserRepository
	Tx      TransactionManager
}
