package models

// FormInput is the free-form text submitted alongside uploaded documents.
type FormInput struct {
	Links       string `json:"links,omitempty"`
	Emails      string `json:"emails,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	AdvisorName string `json:"advisorName,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

// EntitySet holds the named entities extracted from a document.
type EntitySet struct {
	Organizations []string `json:"organizations"`
	People        []string `json:"people"`
	Money         []string `json:"money"`
	Percentages   []string `json:"percentages"`
	Dates         []string `json:"dates"`
}

// InvestmentDetails holds the investment-signal sentences extracted from a
// document. Order and multiplicity are meaningful downstream, so these are
// lists, never sets.
type InvestmentDetails struct {
	ReturnsMentioned  []string `json:"returns_mentioned"`
	RiskStatements    []string `json:"risk_statements"`
	Timeframes        []string `json:"timeframes"`
	InvestmentAmounts []string `json:"investment_amounts"`
}

// ContactDetails holds contact fields extracted from a document.
type ContactDetails struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	Websites []string `json:"websites"`
}

// DocumentResult is the output of the external document-ingestion service
// for one file. Extraction itself is out of scope here; this is its contract.
type DocumentResult struct {
	Success           bool              `json:"success"`
	Error             string            `json:"error,omitempty"`
	Language          string            `json:"language,omitempty"`
	Text              string            `json:"text,omitempty"`
	Entities          EntitySet         `json:"entities"`
	InvestmentDetails InvestmentDetails `json:"investment_details"`
	ContactInfo       ContactDetails    `json:"contact_info"`
	KeyPhrases        []string          `json:"key_phrases"`
}

// EvidenceBundle is the deduplicated union of form input and document
// extraction results consumed by the offer risk flow and by fusion.
type EvidenceBundle struct {
	FormInput          FormInput         `json:"text_input"`
	Entities           EntitySet         `json:"entities"`
	InvestmentDetails  InvestmentDetails `json:"investment_details"`
	ContactInformation ContactDetails    `json:"contact_information"`
	KeyPhrases         []string          `json:"key_phrases"`
	DocumentCount      int               `json:"document_count"`
	DocumentsProcessed int               `json:"documents_processed"`
}

// OfferAnalysis is the full response of the offer risk flow: the merged
// evidence, the fused assessment and the advisor verdict when a claimed
// advisor identity was part of the submission.
type OfferAnalysis struct {
	Evidence   EvidenceBundle      `json:"evidence"`
	Assessment RiskAssessment      `json:"riskAssessment"`
	Advisor    *VerificationResult `json:"advisorVerification,omitempty"`
	AIUsed     bool                `json:"ai_analysis_used"`
}

// RiskAssessment is the offer-analysis verdict returned by the offer flow.
type RiskAssessment struct {
	OverallRisk      RiskLevel `json:"overallRisk"`
	RiskScore        int       `json:"riskScore"`
	RiskKeywords     []string  `json:"riskKeywords"`
	Recommendations  []string  `json:"recommendations"`
	RedFlags         []string  `json:"redFlags"`
	AdvisorStatus    string    `json:"advisorStatus"`
	Registration     string    `json:"sebiRegistration,omitempty"`
	FraudProbability int       `json:"fraudProbability"`
	AnalysisDetails  string    `json:"analysisDetails"`
}
