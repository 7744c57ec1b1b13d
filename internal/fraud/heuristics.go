// Package fraud implements deterministic fraud-pattern heuristics over a
// claimed advisor identity. The scan is pure: no network, no AI, one linear
// pass over the input fields.
package fraud

import (
	"fmt"
	"strings"

	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/registry"
)

// Denylists and canonical phrases carried over from the authority's known
// fraud-pattern catalogue. Matching is substring on normalized text.
var (
	suspiciousNameTokens    = []string{"fake", "scam", "fraud", "cheat"}
	suspiciousCompanyTokens = []string{"scam", "fraud", "fake", "cheat", "quick money"}

	disposableEmailDomains = []string{"tempmail", "10minutemail", "guerrilla"}

	riskyPhrases = []string{
		"guaranteed returns",
		"100% profit",
		"no risk",
		"get rich quick",
		"secret formula",
		"limited time offer",
		"act now",
		"double your money",
	}
)

// ScanReport is the outcome of one heuristic scan. Signals accumulate across
// every rule category; distinct categories are never deduplicated against
// each other.
type ScanReport struct {
	IsSuspicious bool                 `json:"is_suspicious"`
	Signals      []models.FraudSignal `json:"signals"`
}

// Warnings renders the triggered signals as caller-facing warning strings.
func (r ScanReport) Warnings() []string {
	warnings := make([]string, 0, len(r.Signals))
	for _, s := range r.Signals {
		warnings = append(warnings, "Potential fraud indicator: "+s.Indicator)
	}
	return warnings
}

// Recommendations returns the canonical advice for a suspicious scan, or
// nothing for a clean one.
func (r ScanReport) Recommendations() []string {
	if !r.IsSuspicious {
		return nil
	}
	return []string{
		"This appears to be a potentially fraudulent advisor",
		"Do not provide any money or personal information",
		"Report this advisor to SEBI immediately",
	}
}

// Scan evaluates every rule category against the query and accumulates all
// triggered signals; rules never short-circuit each other.
func Scan(query models.AdvisorQuery) ScanReport {
	var signals []models.FraudSignal

	name := strings.ToLower(query.Name)
	for _, token := range suspiciousNameTokens {
		if strings.Contains(name, token) {
			signals = append(signals, models.FraudSignal{Indicator: "Suspicious words in advisor name"})
			break
		}
	}

	company := strings.ToLower(query.CompanyName)
	for _, token := range suspiciousCompanyTokens {
		if strings.Contains(company, token) {
			signals = append(signals, models.FraudSignal{Indicator: "Suspicious words in company name"})
			break
		}
	}

	email := strings.ToLower(query.ContactInfo.Email)
	if email != "" {
		for _, domain := range disposableEmailDomains {
			if strings.Contains(email, domain) {
				signals = append(signals, models.FraudSignal{Indicator: "Temporary email domain detected"})
				break
			}
		}
	}

	if phone := query.ContactInfo.Phone; phone != "" && suspiciousPhone(phone) {
		signals = append(signals, models.FraudSignal{Indicator: "Suspicious phone number pattern"})
	}

	text := registry.Normalize(query.TextFields())
	for _, phrase := range riskyPhrases {
		if strings.Contains(text, registry.Normalize(phrase)) {
			signals = append(signals, models.FraudSignal{
				Indicator: fmt.Sprintf("Suspicious marketing phrase detected: '%s'", phrase),
			})
		}
	}

	return ScanReport{
		IsSuspicious: len(signals) > 0,
		Signals:      signals,
	}
}

// suspiciousPhone flags all-zero prefixes and anomalous zero repetition.
func suspiciousPhone(phone string) bool {
	if strings.HasPrefix(phone, "+91-0000") {
		return true
	}
	return strings.Count(phone, "0") > 7
}
