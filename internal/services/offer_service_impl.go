package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
	"github.com/investsafe/advisor-verify-api/internal/scoring"
	"github.com/investsafe/advisor-verify-api/internal/verification"
)

// offerServiceImpl implements OfferService
type offerServiceImpl struct {
	verification VerificationService
	engine       *scoring.Engine
	oracle       OfferAnalyzer
	log          logger.Logger
}

// newOfferService creates a new offer service implementation
func newOfferService(verificationSvc VerificationService, engine *scoring.Engine, oracle OfferAnalyzer, log logger.Logger) OfferService {
	return &offerServiceImpl{
		verification: verificationSvc,
		engine:       engine,
		oracle:       oracle,
		log:          log,
	}
}

// AnalyzeOffer merges the submitted evidence, verifies the claimed advisor
// when one is named, scores the offer deterministically and refines the
// assessment through the oracle when configured. Oracle failures leave the
// deterministic assessment in place.
func (s *offerServiceImpl) AnalyzeOffer(ctx context.Context, form models.FormInput, docs []models.DocumentResult) (*models.OfferAnalysis, error) {
	evidence := verification.MergeEvidence(form, docs)

	var advisor *models.VerificationResult
	if strings.TrimSpace(form.AdvisorName) != "" {
		result, err := s.verification.VerifyAdvisor(ctx, models.AdvisorQuery{
			Name:        form.AdvisorName,
			CompanyName: form.CompanyName,
			FreeText:    evidence.KeyPhrases,
		})
		if err != nil {
			s.log.Warn("advisor verification during offer analysis failed", zap.Error(err))
		} else {
			advisor = result
		}
	}

	assessment, _ := s.engine.ScoreOffer(evidence, advisor)

	analysis := &models.OfferAnalysis{
		Evidence:   evidence,
		Assessment: *assessment,
		Advisor:    advisor,
	}

	if s.oracle == nil {
		return analysis, nil
	}

	refined, err := s.oracle.AnalyzeOffer(ctx, evidence)
	if err != nil {
		s.log.Warn("oracle offer analysis failed, keeping deterministic assessment", zap.Error(err))
		return analysis, nil
	}

	analysis.Assessment = mergeAssessments(*assessment, *refined)
	analysis.AIUsed = true
	return analysis, nil
}

// mergeAssessments fuses the deterministic and oracle assessments, always
// keeping the riskier verdict.
func mergeAssessments(det, ai models.RiskAssessment) models.RiskAssessment {
	merged := ai

	if riskRank(det.OverallRisk) > riskRank(ai.OverallRisk) {
		merged.OverallRisk = det.OverallRisk
	}
	if det.RiskScore > merged.RiskScore {
		merged.RiskScore = det.RiskScore
	}
	if det.FraudProbability > merged.FraudProbability {
		merged.FraudProbability = det.FraudProbability
	}
	merged.RiskKeywords = appendMissing(merged.RiskKeywords, det.RiskKeywords)
	merged.RedFlags = appendMissing(merged.RedFlags, det.RedFlags)
	merged.Recommendations = appendMissing(merged.Recommendations, det.Recommendations)

	if merged.AdvisorStatus == "" || merged.AdvisorStatus == "unknown" {
		merged.AdvisorStatus = det.AdvisorStatus
	}
	if merged.Registration == "" {
		merged.Registration = det.Registration
	}
	return merged
}

func riskRank(level models.RiskLevel) int {
	switch level {
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	case models.RiskLow:
		return 1
	}
	return 0
}

func appendMissing(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			base = append(base, v)
			seen[v] = true
		}
	}
	return base
}
