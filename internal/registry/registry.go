package registry

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

// ErrUnavailable signals that no registry snapshot is loaded. Callers must
// treat this as degraded confidence, never as a not-found assertion.
var ErrUnavailable = errors.New("advisor registry snapshot not available")

// DefaultNameThreshold is the minimum similarity for a fuzzy name candidate.
const DefaultNameThreshold = 0.7

// Identifier and name fields checked per record, in priority order. The
// published snapshot carries a varying subset of these columns per record.
var (
	registrationFields = []string{"registrationNumber", "regNo", "licenseId", "sebiRegNo"}
	nameFields         = []string{"name", "advisorName", "entityName", "companyName", "firmName"}
)

// Registry is the read-only, in-memory advisor registry snapshot. The
// snapshot is shared across concurrent queries and replaced wholesale via
// atomic swap on reload; records are never mutated in place.
type Registry struct {
	snapshot atomic.Value // []models.RegistryRecord
}

// New creates an empty registry. Resolution returns ErrUnavailable until a
// snapshot is loaded.
func New() *Registry {
	r := &Registry{}
	r.snapshot.Store([]models.RegistryRecord{})
	return r
}

// Load replaces the current snapshot. Safe to call while queries are in
// flight; readers keep the snapshot they started with.
func (r *Registry) Load(records []models.RegistryRecord) {
	if records == nil {
		records = []models.RegistryRecord{}
	}
	r.snapshot.Store(records)
}

// Size returns the number of records in the current snapshot.
func (r *Registry) Size() int {
	return len(r.records())
}

func (r *Registry) records() []models.RegistryRecord {
	return r.snapshot.Load().([]models.RegistryRecord)
}

// ResolveByRegistration looks up a record by exact registration identifier,
// case-insensitive and whitespace-trimmed, across all identifier fields.
// Returns nil when no record matches.
func (r *Registry) ResolveByRegistration(id string) (*models.RegistryRecord, error) {
	records := r.records()
	if len(records) == 0 {
		return nil, ErrUnavailable
	}

	clean := strings.ToUpper(strings.TrimSpace(id))
	if clean == "" {
		return nil, nil
	}

	for i := range records {
		for _, field := range registrationFields {
			value, ok := records[i].RegistrationFields[field]
			if !ok || value == "" {
				continue
			}
			if strings.ToUpper(strings.TrimSpace(value)) == clean {
				record := records[i]
				return &record, nil
			}
		}
	}

	return nil, nil
}

// ResolveByName fuzzy-matches the query name against every configured name
// field of every record. The first field per record meeting the threshold
// wins; candidates come back sorted by similarity descending, ties keeping
// snapshot order.
func (r *Registry) ResolveByName(name string, threshold float64) ([]models.MatchCandidate, error) {
	records := r.records()
	if len(records) == 0 {
		return nil, ErrUnavailable
	}

	normalized := Normalize(name)
	if normalized == "" {
		return nil, nil
	}

	var candidates []models.MatchCandidate
	for i := range records {
		for _, field := range nameFields {
			value, ok := records[i].NameFields[field]
			if !ok || value == "" {
				continue
			}
			score := Similarity(normalized, Normalize(value))
			if score >= threshold {
				candidates = append(candidates, models.MatchCandidate{
					Record:       records[i],
					Similarity:   score,
					MatchedField: field,
				})
				break
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	return candidates, nil
}
