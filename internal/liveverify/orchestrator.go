// Package liveverify confirms claimed advisor identities against the
// regulator's public website using an ordered chain of lookup strategies.
package liveverify

import (
	"context"

	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/fraud"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
)

// VerificationMethod tags results produced by this package.
const VerificationMethod = "live_sebi_search"

// Orchestrator runs the configured strategies in order. A strategy's
// internal failure never aborts the chain; it is recorded in the attempt
// log and the next strategy runs.
type Orchestrator struct {
	strategies []Strategy
	monitor    *HealthMonitor
	log        logger.Logger
}

// NewOrchestrator builds the default strategy chain: directory crawl, then
// site search. The client is injected so tests can point it at a stub server.
func NewOrchestrator(client *Client, log logger.Logger, workers, maxPages int) *Orchestrator {
	return &Orchestrator{
		strategies: []Strategy{
			NewDirectoryStrategy(client, log, workers, maxPages),
			NewSiteSearchStrategy(client, log),
		},
		monitor: NewHealthMonitor(),
		log:     log,
	}
}

// NewOrchestratorWithStrategies builds an orchestrator over an explicit
// strategy chain, in execution order.
func NewOrchestratorWithStrategies(log logger.Logger, strategies ...Strategy) *Orchestrator {
	return &Orchestrator{
		strategies: strategies,
		monitor:    NewHealthMonitor(),
		log:        log,
	}
}

// Health returns the current live-verification health status.
func (o *Orchestrator) Health() HealthStatus {
	return o.monitor.GetHealthStatus()
}

// Monitor exposes the underlying health monitor for the health endpoints.
func (o *Orchestrator) Monitor() *HealthMonitor {
	return o.monitor
}

// ResetHealth clears accumulated health statistics.
func (o *Orchestrator) ResetHealth() {
	o.monitor.Reset()
}

// Verify attempts to confirm the identity on the regulator website. Every
// strategy attempt is kept in SearchAttempts, in execution order, failures
// included. When no strategy finds the identity the fraud heuristics run;
// a suspicious scan terminates the verification as suspicious, otherwise
// the result is not_found with the canonical caution advice. Context
// cancellation yields status=error, never a false not_found.
func (o *Orchestrator) Verify(ctx context.Context, query models.AdvisorQuery) *models.VerificationResult {
	result := models.NewVerificationResult()
	result.VerificationMethod = VerificationMethod

	for _, strategy := range o.strategies {
		if ctx.Err() != nil {
			return o.cancelled(result, ctx)
		}

		attempt := strategy.Attempt(ctx, query)
		result.SearchAttempts = append(result.SearchAttempts, attempt)

		if attempt.Error != "" {
			o.monitor.RecordFailure(attempt.Method, attempt.Error)
			o.log.Warn("strategy attempt failed",
				zap.String("strategy", attempt.Method),
				zap.String("error", attempt.Error))
			continue
		}
		o.monitor.RecordSuccess(attempt.Method)

		if attempt.Found {
			return o.found(result, attempt)
		}
	}

	if ctx.Err() != nil {
		return o.cancelled(result, ctx)
	}

	if report := fraud.Scan(query); report.IsSuspicious {
		result.Status = models.StatusSuspicious
		result.RiskLevel = models.RiskHigh
		result.Warnings = append(result.Warnings, report.Warnings()...)
		result.Recommendations = append(result.Recommendations, report.Recommendations()...)
		return result
	}

	result.Warnings = append(result.Warnings, "Advisor not found on SEBI official website")
	result.Recommendations = append(result.Recommendations,
		"Request official SEBI registration certificate",
		"Verify advisor credentials through SEBI helpline",
		"Be cautious about investment advice from unregistered advisors",
		"Check SEBI website manually for advisor registration",
	)
	return result
}

// found finalizes a successful live confirmation. Warnings and
// recommendations are replaced by the canonical found-advisory set.
func (o *Orchestrator) found(result *models.VerificationResult, attempt models.SearchAttempt) *models.VerificationResult {
	result.Status = models.StatusVerified
	result.IsRegistered = true
	result.RegistrationStatus = "found"
	result.RiskLevel = models.RiskLow
	result.Details = attempt.Details
	result.Recommendations = []string{
		"Advisor found on SEBI official website",
		"Cross-verify the registration details",
		"Ensure you're dealing with the correct person",
	}
	result.Warnings = []string{
		"Always verify advisor identity in person",
		"Check registration validity dates",
	}
	return result
}

// cancelled finalizes a run aborted by the caller's deadline. The partial
// attempt log is preserved for auditability.
func (o *Orchestrator) cancelled(result *models.VerificationResult, ctx context.Context) *models.VerificationResult {
	result.Status = models.StatusError
	result.RegistrationStatus = "error"
	result.RiskLevel = models.RiskHigh
	result.Warnings = append(result.Warnings, "Live verification aborted: "+ctx.Err().Error())
	result.Recommendations = append(result.Recommendations, "Retry verification or verify manually")
	return result
}
