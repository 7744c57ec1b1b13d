package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

// rawRecord is one entry of the published snapshot file. The authority's
// export is a flat object mixing identifier columns, name columns and
// status flags, so everything lands in one map first.
type rawRecord map[string]interface{}

// LoadSnapshotFile reads an advisor snapshot from a JSON file. A missing or
// unreadable file yields an empty slice and the error; callers are expected
// to continue with an empty registry rather than abort.
func LoadSnapshotFile(path string) ([]models.RegistryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	records := make([]models.RegistryRecord, 0, len(raw))
	for _, entry := range raw {
		records = append(records, entry.toRecord())
	}
	return records, nil
}

func (r rawRecord) toRecord() models.RegistryRecord {
	record := models.RegistryRecord{
		RegistrationFields: models.FieldMap{},
		NameFields:         models.FieldMap{},
		Status:             models.RegistryUnknown,
	}

	for _, field := range registrationFields {
		if v := r.stringField(field); v != "" {
			record.RegistrationFields[field] = v
		}
	}
	for _, field := range nameFields {
		if v := r.stringField(field); v != "" {
			record.NameFields[field] = v
		}
	}

	switch strings.ToLower(r.stringField("status")) {
	case "active":
		record.Status = models.RegistryActive
	case "suspended":
		record.Status = models.RegistrySuspended
	}

	if v, ok := r["sebiVerified"].(bool); ok {
		record.Verified = v
	}

	return record
}

func (r rawRecord) stringField(key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
