package liveverify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
)

// stubStrategy returns a canned attempt, optionally after a delay.
type stubStrategy struct {
	name    string
	attempt models.SearchAttempt
	delay   time.Duration
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Attempt(ctx context.Context, query models.AdvisorQuery) models.SearchAttempt {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return models.SearchAttempt{Method: s.name, Error: ctx.Err().Error()}
		}
	}
	a := s.attempt
	a.Method = s.name
	return a
}

func TestOrchestrator_FoundShortCircuits(t *testing.T) {
	first := &stubStrategy{name: "first", attempt: models.SearchAttempt{Found: true, Details: map[string]interface{}{"page_url": "u"}}}
	second := &stubStrategy{name: "second"}

	o := NewOrchestratorWithStrategies(logger.NewNop(), first, second)
	result := o.Verify(context.Background(), models.AdvisorQuery{Name: "Rajesh Kumar"})

	assert.Equal(t, models.StatusVerified, result.Status)
	assert.True(t, result.IsRegistered)
	assert.Equal(t, "found", result.RegistrationStatus)
	assert.Equal(t, models.RiskLow, result.RiskLevel)
	assert.Equal(t, VerificationMethod, result.VerificationMethod)
	assert.Equal(t, 0, second.calls, "found result must short-circuit later strategies")
	require.Len(t, result.SearchAttempts, 1)
	assert.Contains(t, result.Recommendations, "Advisor found on SEBI official website")
}

func TestOrchestrator_FailedStrategyDoesNotAbortChain(t *testing.T) {
	failing := &stubStrategy{name: "failing", attempt: models.SearchAttempt{Error: "connection refused"}}
	finding := &stubStrategy{name: "finding", attempt: models.SearchAttempt{Found: true}}

	o := NewOrchestratorWithStrategies(logger.NewNop(), failing, finding)
	result := o.Verify(context.Background(), models.AdvisorQuery{Name: "Rajesh Kumar"})

	assert.Equal(t, models.StatusVerified, result.Status)
	require.Len(t, result.SearchAttempts, 2)
	assert.False(t, result.SearchAttempts[0].Found)
	assert.Equal(t, "connection refused", result.SearchAttempts[0].Error)
	assert.True(t, result.SearchAttempts[1].Found)
}

func TestOrchestrator_AttemptOrderPreserved(t *testing.T) {
	a := &stubStrategy{name: "alpha", attempt: models.SearchAttempt{Error: "boom"}}
	b := &stubStrategy{name: "beta"}
	c := &stubStrategy{name: "gamma"}

	o := NewOrchestratorWithStrategies(logger.NewNop(), a, b, c)
	result := o.Verify(context.Background(), models.AdvisorQuery{Name: "Rajesh Kumar"})

	require.Len(t, result.SearchAttempts, 3)
	assert.Equal(t, "alpha", result.SearchAttempts[0].Method)
	assert.Equal(t, "beta", result.SearchAttempts[1].Method)
	assert.Equal(t, "gamma", result.SearchAttempts[2].Method)
}

func TestOrchestrator_NotFoundCarriesCautionAdvice(t *testing.T) {
	o := NewOrchestratorWithStrategies(logger.NewNop(), &stubStrategy{name: "only"})
	result := o.Verify(context.Background(), models.AdvisorQuery{Name: "Rajesh Kumar"})

	assert.Equal(t, models.StatusNotFound, result.Status)
	assert.False(t, result.IsRegistered)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.Contains(t, result.Warnings, "Advisor not found on SEBI official website")
	assert.Contains(t, result.Recommendations, "Request official SEBI registration certificate")
	assert.Len(t, result.Recommendations, 4)
}

func TestOrchestrator_FraudHeuristicsTerminateAsSuspicious(t *testing.T) {
	o := NewOrchestratorWithStrategies(logger.NewNop(), &stubStrategy{name: "only"})
	result := o.Verify(context.Background(), models.AdvisorQuery{
		Name:     "Rajesh Kumar",
		FreeText: []string{"We promise guaranteed returns on all deposits"},
	})

	assert.Equal(t, models.StatusSuspicious, result.Status)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)

	foundPhrase := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "guaranteed returns") {
			foundPhrase = true
		}
	}
	assert.True(t, foundPhrase, "triggering phrase must appear among warnings")
}

func TestOrchestrator_CancelledContextYieldsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestratorWithStrategies(logger.NewNop(), &stubStrategy{name: "only"})
	result := o.Verify(ctx, models.AdvisorQuery{Name: "Rajesh Kumar"})

	assert.Equal(t, models.StatusError, result.Status)
	assert.NotEqual(t, models.StatusNotFound, result.Status, "cancellation must not masquerade as not_found")
}

func TestOrchestrator_DeadlineDuringStrategy(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	slow := &stubStrategy{name: "slow", delay: 200 * time.Millisecond}
	o := NewOrchestratorWithStrategies(logger.NewNop(), slow)

	start := time.Now()
	result := o.Verify(ctx, models.AdvisorQuery{Name: "Rajesh Kumar"})

	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, models.StatusError, result.Status)
	require.Len(t, result.SearchAttempts, 1)
	assert.NotEmpty(t, result.SearchAttempts[0].Error)
}
