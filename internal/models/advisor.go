package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// VerificationStatus is the terminal classification of an advisor query.
type VerificationStatus string

const (
	StatusVerified      VerificationStatus = "verified"
	StatusSuspicious    VerificationStatus = "suspicious"
	StatusUnverified    VerificationStatus = "unverified"
	StatusPartialMatch  VerificationStatus = "partial_match"
	StatusLowConfidence VerificationStatus = "low_confidence"
	StatusNotFound      VerificationStatus = "not_found"
	StatusError         VerificationStatus = "error"
)

// RiskLevel buckets the fraud risk of a verdict.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RegistryStatus is the registration state carried by a snapshot record.
type RegistryStatus string

const (
	RegistryActive    RegistryStatus = "active"
	RegistrySuspended RegistryStatus = "suspended"
	RegistryUnknown   RegistryStatus = "unknown"
)

// ContactInfo holds the contact fields of a claimed advisor identity.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// AdvisorQuery is the immutable input to the verification pipeline.
// At least Name or one of RegistrationNumber/LicenseID must be set.
type AdvisorQuery struct {
	Name               string      `json:"name"`
	RegistrationNumber string      `json:"registrationNumber,omitempty"`
	LicenseID          string      `json:"licenseId,omitempty"`
	CompanyName        string      `json:"companyName,omitempty"`
	ContactInfo        ContactInfo `json:"contactInfo,omitempty"`
	FreeText           []string    `json:"freeText,omitempty"`
}

// Identifier returns the strongest registration identifier supplied, or "".
func (q AdvisorQuery) Identifier() string {
	if strings.TrimSpace(q.RegistrationNumber) != "" {
		return strings.TrimSpace(q.RegistrationNumber)
	}
	return strings.TrimSpace(q.LicenseID)
}

// HasIdentity reports whether the query carries enough data to resolve.
func (q AdvisorQuery) HasIdentity() bool {
	return strings.TrimSpace(q.Name) != "" || q.Identifier() != ""
}

// TextFields concatenates every textual field of the query for phrase scanning.
func (q AdvisorQuery) TextFields() string {
	parts := []string{
		q.Name, q.RegistrationNumber, q.LicenseID, q.CompanyName,
		q.ContactInfo.Email, q.ContactInfo.Phone,
	}
	parts = append(parts, q.FreeText...)
	return strings.Join(parts, " ")
}

// RegistryRecord is one entry of the advisor registry snapshot. Registration
// and name fields are keyed maps because the published snapshot carries a
// varying set of identifier columns per record.
type RegistryRecord struct {
	RegistrationFields FieldMap       `json:"registration_fields" db:"registration_fields"`
	NameFields         FieldMap       `json:"name_fields" db:"name_fields"`
	Status             RegistryStatus `json:"status" db:"status"`
	Verified           bool           `json:"verified" db:"verified"`
}

// FieldMap is a string-keyed field set stored as a JSON column.
type FieldMap map[string]string

// Value implements driver.Valuer for FieldMap
func (m FieldMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for FieldMap
func (m *FieldMap) Scan(value interface{}) error {
	if value == nil {
		*m = FieldMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into FieldMap", value)
	}
	return json.Unmarshal(b, m)
}

// MatchCandidate is a fuzzy name match produced by the registry resolver.
type MatchCandidate struct {
	Record       RegistryRecord `json:"record"`
	Similarity   float64        `json:"similarity_score"`
	MatchedField string         `json:"matched_field"`
}

// SearchAttempt records one live-verification strategy execution. Attempts
// are kept in execution order for auditability, failures included.
type SearchAttempt struct {
	Method  string                 `json:"method"`
	Found   bool                   `json:"found"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FraudSignal is one triggered fraud heuristic.
type FraudSignal struct {
	Indicator string `json:"indicator"`
}

// VerificationResult is the fused verdict for one advisor query. It is
// assembled incrementally during fusion and must not be mutated after return.
type VerificationResult struct {
	Status             VerificationStatus `json:"status"`
	IsRegistered       bool               `json:"isRegistered"`
	RegistrationStatus string             `json:"registrationStatus"`
	RiskLevel          RiskLevel          `json:"riskLevel"`
	Warnings           []string           `json:"warnings"`
	Recommendations    []string           `json:"recommendations"`
	Matches            []MatchCandidate   `json:"matches"`
	SearchAttempts     []SearchAttempt    `json:"searchAttempts"`
	Details            interface{}        `json:"details"`
	VerificationMethod string             `json:"verification_method,omitempty"`
	CheckedAt          time.Time          `json:"checked_at"`
}

// NewVerificationResult returns the pessimistic baseline every pipeline run
// starts from: nothing found, high risk.
func NewVerificationResult() *VerificationResult {
	return &VerificationResult{
		Status:             StatusNotFound,
		IsRegistered:       false,
		RegistrationStatus: "not_found",
		RiskLevel:          RiskHigh,
		Warnings:           []string{},
		Recommendations:    []string{},
		Matches:            []MatchCandidate{},
		SearchAttempts:     []SearchAttempt{},
		CheckedAt:          time.Now().UTC(),
	}
}
