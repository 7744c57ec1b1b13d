package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/registry"
	"github.com/investsafe/advisor-verify-api/internal/repository"
)

// registryServiceImpl implements RegistryService
type registryServiceImpl struct {
	registry *registry.Registry
	repos    *repository.Repositories
	log      logger.Logger
}

// newRegistryService creates a new registry service implementation
func newRegistryService(reg *registry.Registry, repos *repository.Repositories, log logger.Logger) RegistryService {
	return &registryServiceImpl{registry: reg, repos: repos, log: log}
}

// LoadFromDatabase replaces the in-memory snapshot with the stored records
func (s *registryServiceImpl) LoadFromDatabase() error {
	if s.repos == nil {
		return fmt.Errorf("no database configured")
	}

	records, err := s.repos.Advisor.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load registry from database: %w", err)
	}

	s.registry.Load(records)
	s.log.Info("registry snapshot loaded from database", zap.Int("records", len(records)))
	return nil
}

// LoadFromFile replaces the in-memory snapshot with a JSON snapshot file
func (s *registryServiceImpl) LoadFromFile(path string) error {
	records, err := registry.LoadSnapshotFile(path)
	if err != nil {
		return fmt.Errorf("failed to load registry snapshot %s: %w", path, err)
	}

	s.registry.Load(records)
	s.log.Info("registry snapshot loaded from file",
		zap.String("path", path), zap.Int("records", len(records)))
	return nil
}

// ImportSnapshot loads a snapshot file, persists it transactionally and then
// swaps it into memory. A failed import leaves both stores untouched.
func (s *registryServiceImpl) ImportSnapshot(path string) error {
	if s.repos == nil {
		return fmt.Errorf("no database configured")
	}

	records, err := registry.LoadSnapshotFile(path)
	if err != nil {
		return fmt.Errorf("failed to load registry snapshot %s: %w", path, err)
	}

	err = s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		return repos.Advisor.ReplaceAll(records)
	})
	if err != nil {
		return fmt.Errorf("failed to persist registry snapshot: %w", err)
	}

	s.registry.Load(records)
	s.log.Info("registry snapshot imported",
		zap.String("path", path), zap.Int("records", len(records)))
	return nil
}

// Size returns the number of records in the in-memory snapshot
func (s *registryServiceImpl) Size() int {
	return s.registry.Size()
}
