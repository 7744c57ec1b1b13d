package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/investsafe/advisor-verify-api/internal/models"
)

func TestMergeEvidence_DeduplicatesAcrossDocuments(t *testing.T) {
	docs := []models.DocumentResult{
		{
			Success: true,
			Entities: models.EntitySet{
				Organizations: []string{"Acme Capital", "Bharat Finance"},
				Money:         []string{"Rs 50,000"},
			},
			ContactInfo: models.ContactDetails{Emails: []string{"info@acme.example"}},
			KeyPhrases:  []string{"guaranteed returns"},
		},
		{
			Success: true,
			Entities: models.EntitySet{
				Organizations: []string{"Acme Capital"},
				People:        []string{"Rajesh Kumar"},
			},
			ContactInfo: models.ContactDetails{Emails: []string{"info@acme.example", "sales@acme.example"}},
			KeyPhrases:  []string{"guaranteed returns", "limited time offer"},
		},
	}

	bundle := MergeEvidence(models.FormInput{}, docs)

	assert.Equal(t, []string{"Acme Capital", "Bharat Finance"}, bundle.Entities.Organizations)
	assert.Equal(t, []string{"Rajesh Kumar"}, bundle.Entities.People)
	assert.Equal(t, []string{"info@acme.example", "sales@acme.example"}, bundle.ContactInformation.Emails)
	assert.Equal(t, []string{"guaranteed returns", "limited time offer"}, bundle.KeyPhrases)
}

func TestMergeEvidence_InvestmentDetailsConcatenate(t *testing.T) {
	docs := []models.DocumentResult{
		{
			Success: true,
			InvestmentDetails: models.InvestmentDetails{
				ReturnsMentioned: []string{"25% monthly returns"},
				Timeframes:       []string{"within 30 days"},
			},
		},
		{
			Success: true,
			InvestmentDetails: models.InvestmentDetails{
				ReturnsMentioned: []string{"25% monthly returns"},
				RiskStatements:   []string{"no risk involved"},
			},
		},
	}

	bundle := MergeEvidence(models.FormInput{}, docs)

	// duplicates survive, order and multiplicity carry signal
	assert.Equal(t, []string{"25% monthly returns", "25% monthly returns"},
		bundle.InvestmentDetails.ReturnsMentioned)
	assert.Equal(t, []string{"no risk involved"}, bundle.InvestmentDetails.RiskStatements)
	assert.Equal(t, []string{"within 30 days"}, bundle.InvestmentDetails.Timeframes)
}

func TestMergeEvidence_SkipsFailedDocumentsButCountsThem(t *testing.T) {
	docs := []models.DocumentResult{
		{Success: true, KeyPhrases: []string{"act now"}},
		{Success: false, KeyPhrases: []string{"should not appear"}},
		{Success: true},
	}

	bundle := MergeEvidence(models.FormInput{}, docs)

	assert.Equal(t, 3, bundle.DocumentCount)
	assert.Equal(t, 2, bundle.DocumentsProcessed)
	assert.Equal(t, []string{"act now"}, bundle.KeyPhrases)
}

func TestMergeEvidence_NoDocuments(t *testing.T) {
	form := models.FormInput{AdvisorName: "Rajesh Kumar", CompanyName: "Acme Capital"}

	bundle := MergeEvidence(form, nil)

	assert.Equal(t, form, bundle.FormInput)
	assert.Equal(t, 0, bundle.DocumentCount)
	assert.NotNil(t, bundle.KeyPhrases)
	assert.Empty(t, bundle.KeyPhrases)
	assert.NotNil(t, bundle.Entities.Organizations)
}

func TestMergeEvidence_IgnoresEmptyStrings(t *testing.T) {
	docs := []models.DocumentResult{
		{Success: true, Entities: models.EntitySet{Organizations: []string{"", "Acme Capital", ""}}},
	}

	bundle := MergeEvidence(models.FormInput{}, docs)

	assert.Equal(t, []string{"Acme Capital"}, bundle.Entities.Organizations)
}
