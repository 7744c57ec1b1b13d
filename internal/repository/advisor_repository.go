package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

// advisorRepository implements AdvisorRepository over the advisors table.
// The table is a snapshot mirror: reads load the whole set into the
// in-memory registry, writes replace it wholesale during imports.
type advisorRepository struct {
	db dbExecutor
}

// NewAdvisorRepository creates a new advisor repository
func NewAdvisorRepository(db dbExecutor) AdvisorRepository {
	return &advisorRepository{db: db}
}

// GetAll retrieves every registry record
func (r *advisorRepository) GetAll() ([]models.RegistryRecord, error) {
	query := `
		SELECT registration_fields, name_fields, status, verified
		FROM advisors
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisors: %w", err)
	}
	defer rows.Close()

	var records []models.RegistryRecord
	for rows.Next() {
		var record models.RegistryRecord
		if err := rows.Scan(
			&record.RegistrationFields, &record.NameFields,
			&record.Status, &record.Verified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan advisor row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate advisor rows: %w", err)
	}

	return records, nil
}

// Count returns the number of stored registry records
func (r *advisorRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM advisors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count advisors: %w", err)
	}
	return count, nil
}

// ReplaceAll swaps the stored snapshot for the given records. Callers run
// this inside WithTransaction so a failed import never empties the table.
func (r *advisorRepository) ReplaceAll(records []models.RegistryRecord) error {
	if _, err := r.db.Exec(`DELETE FROM advisors`); err != nil {
		return fmt.Errorf("failed to clear advisors: %w", err)
	}

	query := `
		INSERT INTO advisors (id, registration_fields, name_fields, status, verified)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, record := range records {
		if _, err := r.db.Exec(query,
			uuid.New(), record.RegistrationFields, record.NameFields,
			record.Status, record.Verified,
		); err != nil {
			return fmt.Errorf("failed to insert advisor: %w", err)
		}
	}

	return nil
}
