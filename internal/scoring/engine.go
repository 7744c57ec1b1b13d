// Package scoring computes a deterministic fraud-risk score for an
// investment offer from its aggregated evidence bundle. The engine is a
// fixed weighted-rule model; every triggered rule contributes points and a
// human-readable entry so the final assessment is fully explainable.
package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

// Engine scores offer evidence against the built-in rule set.
type Engine struct {
	rules []Rule
}

// Rule is a single weighted fraud indicator.
type Rule struct {
	Name        string
	Description string
	Weight      int
	Evaluate    func(in Input) (triggered bool, value string)
}

// Input is everything a rule may inspect: the merged evidence and, when
// available, the advisor verification verdict for the offer's claimed advisor.
type Input struct {
	Evidence models.EvidenceBundle
	Advisor  *models.VerificationResult
}

// Detail records one rule evaluation for the score breakdown.
type Detail struct {
	Rule        string `json:"rule"`
	Points      int    `json:"points"`
	Triggered   bool   `json:"triggered"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

// Risk-bucket thresholds on the accumulated score.
const (
	highRiskScore   = 60
	mediumRiskScore = 20
)

var (
	pressurePhrases = []string{
		"guaranteed returns", "100% profit", "no risk", "get rich quick",
		"secret formula", "limited time offer", "act now", "double your money",
	}
	percentPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	shortTimeframes = []string{"day", "days", "week", "weeks", "overnight", "instant"}
)

// Monthly returns above this are treated as unrealistic.
const unrealisticReturnPct = 24

// NewEngine builds the engine with the default rule set.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules()}
}

// ScoreOffer evaluates every rule and maps the accumulated score into a
// RiskAssessment. It never fails: missing evidence simply triggers fewer
// rules.
func (e *Engine) ScoreOffer(evidence models.EvidenceBundle, advisor *models.VerificationResult) (*models.RiskAssessment, []Detail) {
	in := Input{Evidence: evidence, Advisor: advisor}

	score := 0
	details := make([]Detail, 0, len(e.rules))
	keywords := []string{}
	redFlags := []string{}

	for _, rule := range e.rules {
		triggered, value := rule.Evaluate(in)
		detail := Detail{
			Rule:        rule.Name,
			Triggered:   triggered,
			Description: rule.Description,
			Value:       value,
		}
		if triggered {
			detail.Points = rule.Weight
			score += rule.Weight
			redFlags = append(redFlags, rule.Description)
			if value != "" {
				keywords = append(keywords, value)
			}
		}
		details = append(details, detail)
	}
	if score > 100 {
		score = 100
	}

	assessment := &models.RiskAssessment{
		RiskScore:        score,
		RiskKeywords:     keywords,
		RedFlags:         redFlags,
		Recommendations:  []string{},
		FraudProbability: score,
		AdvisorStatus:    advisorStatus(advisor),
		Registration:     advisorRegistration(advisor),
		AnalysisDetails:  summarize(score, redFlags),
	}

	switch {
	case score >= highRiskScore:
		assessment.OverallRisk = models.RiskHigh
		assessment.Recommendations = append(assessment.Recommendations,
			"Do not invest until every red flag is independently resolved",
			"Report the offer to SEBI if the sender pressures you to act")
	case score >= mediumRiskScore:
		assessment.OverallRisk = models.RiskMedium
		assessment.Recommendations = append(assessment.Recommendations,
			"Verify the advisor's SEBI registration before proceeding",
			"Request audited performance records for the claimed returns")
	default:
		assessment.OverallRisk = models.RiskLow
		assessment.Recommendations = append(assessment.Recommendations,
			"Standard due diligence recommended before investing")
	}

	return assessment, details
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name:        "pressure_phrases",
			Description: "Marketing language typical of fraudulent schemes",
			Weight:      25,
			Evaluate: func(in Input) (bool, string) {
				text := combinedText(in.Evidence)
				for _, phrase := range pressurePhrases {
					if strings.Contains(text, phrase) {
						return true, phrase
					}
				}
				return false, ""
			},
		},
		{
			Name:        "unrealistic_returns",
			Description: "Promised returns exceed any plausible legitimate yield",
			Weight:      30,
			Evaluate: func(in Input) (bool, string) {
				sources := append([]string{}, in.Evidence.InvestmentDetails.ReturnsMentioned...)
				sources = append(sources, in.Evidence.Entities.Percentages...)
				for _, s := range sources {
					for _, m := range percentPattern.FindAllStringSubmatch(s, -1) {
						pct, err := strconv.ParseFloat(m[1], 64)
						if err == nil && pct > unrealisticReturnPct {
							return true, m[0]
						}
					}
				}
				return false, ""
			},
		},
		{
			Name:        "no_risk_claims",
			Description: "Offer denies investment risk entirely",
			Weight:      15,
			Evaluate: func(in Input) (bool, string) {
				for _, s := range in.Evidence.InvestmentDetails.RiskStatements {
					lower := strings.ToLower(s)
					if strings.Contains(lower, "no risk") || strings.Contains(lower, "risk free") ||
						strings.Contains(lower, "risk-free") || strings.Contains(lower, "zero risk") {
						return true, s
					}
				}
				return false, ""
			},
		},
		{
			Name:        "short_timeframe",
			Description: "Returns promised over an implausibly short horizon",
			Weight:      10,
			Evaluate: func(in Input) (bool, string) {
				for _, s := range in.Evidence.InvestmentDetails.Timeframes {
					lower := strings.ToLower(s)
					for _, unit := range shortTimeframes {
						if strings.Contains(lower, unit) {
							return true, s
						}
					}
				}
				return false, ""
			},
		},
		{
			Name:        "advisor_suspicious",
			Description: "Claimed advisor failed identity verification",
			Weight:      30,
			Evaluate: func(in Input) (bool, string) {
				if in.Advisor == nil {
					return false, ""
				}
				if in.Advisor.Status == models.StatusSuspicious {
					return true, string(in.Advisor.Status)
				}
				return false, ""
			},
		},
		{
			Name:        "advisor_unregistered",
			Description: "Claimed advisor has no SEBI registration on record",
			Weight:      20,
			Evaluate: func(in Input) (bool, string) {
				if in.Advisor == nil {
					return false, ""
				}
				switch in.Advisor.Status {
				case models.StatusNotFound, models.StatusUnverified:
					return true, string(in.Advisor.Status)
				}
				return false, ""
			},
		},
		{
			Name:        "no_contact_trail",
			Description: "Offer documents carry no verifiable contact information",
			Weight:      10,
			Evaluate: func(in Input) (bool, string) {
				c := in.Evidence.ContactInformation
				if in.Evidence.DocumentsProcessed > 0 &&
					len(c.Emails) == 0 && len(c.Phones) == 0 && len(c.Websites) == 0 {
					return true, ""
				}
				return false, ""
			},
		},
	}
}

// combinedText flattens the textual evidence for phrase matching.
func combinedText(evidence models.EvidenceBundle) string {
	parts := []string{
		evidence.FormInput.CompanyName,
		evidence.FormInput.AdvisorName,
		evidence.FormInput.ContactInfo,
	}
	parts = append(parts, evidence.KeyPhrases...)
	parts = append(parts, evidence.InvestmentDetails.ReturnsMentioned...)
	parts = append(parts, evidence.InvestmentDetails.RiskStatements...)
	return strings.ToLower(strings.Join(parts, " "))
}

func advisorStatus(advisor *models.VerificationResult) string {
	if advisor == nil {
		return "unknown"
	}
	switch advisor.Status {
	case models.StatusVerified:
		return "registered"
	case models.StatusNotFound, models.StatusSuspicious:
		return "unregistered"
	default:
		return "unknown"
	}
}

func advisorRegistration(advisor *models.VerificationResult) string {
	if advisor == nil || advisor.Details == nil {
		return ""
	}
	record, ok := advisor.Details.(*models.RegistryRecord)
	if !ok {
		return ""
	}
	for _, v := range record.RegistrationFields {
		if v != "" {
			return v
		}
	}
	return ""
}

func summarize(score int, redFlags []string) string {
	if len(redFlags) == 0 {
		return fmt.Sprintf("Deterministic scan found no fraud indicators (score %d)", score)
	}
	return fmt.Sprintf("Deterministic scan scored %d from %d indicator(s): %s",
		score, len(redFlags), strings.Join(redFlags, "; "))
}
