package verification

import (
	"github.com/investsafe/advisor-verify-api/internal/models"
)

// MergeEvidence combines direct form input with the extraction results of
// one or more processed documents into a single evidence bundle. Entity,
// contact and key-phrase fields are deduplicated unions preserving first
// appearance; investment-detail sentence lists concatenate because order
// and multiplicity matter downstream. Failed documents are skipped but
// counted so callers can surface a processed ratio.
func MergeEvidence(form models.FormInput, docs []models.DocumentResult) models.EvidenceBundle {
	bundle := models.EvidenceBundle{
		FormInput:     form,
		DocumentCount: len(docs),
	}

	orgs := newStringSet()
	people := newStringSet()
	money := newStringSet()
	percentages := newStringSet()
	dates := newStringSet()
	emails := newStringSet()
	phones := newStringSet()
	websites := newStringSet()
	phrases := newStringSet()

	for _, doc := range docs {
		if !doc.Success {
			continue
		}
		bundle.DocumentsProcessed++

		orgs.addAll(doc.Entities.Organizations)
		people.addAll(doc.Entities.People)
		money.addAll(doc.Entities.Money)
		percentages.addAll(doc.Entities.Percentages)
		dates.addAll(doc.Entities.Dates)

		emails.addAll(doc.ContactInfo.Emails)
		phones.addAll(doc.ContactInfo.Phones)
		websites.addAll(doc.ContactInfo.Websites)

		phrases.addAll(doc.KeyPhrases)

		bundle.InvestmentDetails.ReturnsMentioned = append(
			bundle.InvestmentDetails.ReturnsMentioned, doc.InvestmentDetails.ReturnsMentioned...)
		bundle.InvestmentDetails.RiskStatements = append(
			bundle.InvestmentDetails.RiskStatements, doc.InvestmentDetails.RiskStatements...)
		bundle.InvestmentDetails.Timeframes = append(
			bundle.InvestmentDetails.Timeframes, doc.InvestmentDetails.Timeframes...)
		bundle.InvestmentDetails.InvestmentAmounts = append(
			bundle.InvestmentDetails.InvestmentAmounts, doc.InvestmentDetails.InvestmentAmounts...)
	}

	bundle.Entities = models.EntitySet{
		Organizations: orgs.values(),
		People:        people.values(),
		Money:         money.values(),
		Percentages:   percentages.values(),
		Dates:         dates.values(),
	}
	bundle.ContactInformation = models.ContactDetails{
		Emails:   emails.values(),
		Phones:   phones.values(),
		Websites: websites.values(),
	}
	bundle.KeyPhrases = phrases.values()

	return bundle
}

// stringSet is an insertion-ordered set of strings.
type stringSet struct {
	seen  map[string]bool
	order []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]bool)}
}

func (s *stringSet) addAll(values []string) {
	for _, v := range values {
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.order = append(s.order, v)
	}
}

func (s *stringSet) values() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
