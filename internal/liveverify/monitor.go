package liveverify

import (
	"sync"
	"time"
)

// HealthMonitor tracks live-verification strategy outcomes and failure rates.
type HealthMonitor struct {
	mu                   sync.RWMutex
	totalAttempts        int64
	successfulAttempts   int64
	failedAttempts       int64
	consecutiveFailures  int64
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	recentFailures       []FailureRecord
	maxRecentFailures    int
	failureThreshold     float64
	consecutiveThreshold int64
}

// FailureRecord represents a single failed strategy attempt.
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Strategy  string    `json:"strategy"`
	Error     string    `json:"error"`
}

// HealthStatus is the externally visible health of the live-verification path.
type HealthStatus struct {
	IsHealthy           bool            `json:"is_healthy"`
	TotalAttempts       int64           `json:"total_attempts"`
	SuccessfulAttempts  int64           `json:"successful_attempts"`
	FailedAttempts      int64           `json:"failed_attempts"`
	SuccessRate         float64         `json:"success_rate"`
	ConsecutiveFailures int64           `json:"consecutive_failures"`
	LastFailureTime     *time.Time      `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time      `json:"last_success_time,omitempty"`
	RecentFailures      []FailureRecord `json:"recent_failures"`
	HealthIssues        []string        `json:"health_issues"`
}

// NewHealthMonitor creates a health monitor with default thresholds.
func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		maxRecentFailures:    50,
		failureThreshold:     0.2,
		consecutiveThreshold: 5,
		recentFailures:       make([]FailureRecord, 0, 50),
	}
}

// RecordSuccess records a strategy attempt that completed without error.
// Completing without error includes a clean "not found".
func (h *HealthMonitor) RecordSuccess(strategy string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalAttempts++
	h.successfulAttempts++
	h.consecutiveFailures = 0
	h.lastSuccessTime = time.Now()
}

// RecordFailure records a strategy attempt that errored.
func (h *HealthMonitor) RecordFailure(strategy, errorMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalAttempts++
	h.failedAttempts++
	h.consecutiveFailures++
	h.lastFailureTime = time.Now()

	h.recentFailures = append(h.recentFailures, FailureRecord{
		Timestamp: time.Now(),
		Strategy:  strategy,
		Error:     errorMsg,
	})
	if len(h.recentFailures) > h.maxRecentFailures {
		h.recentFailures = h.recentFailures[1:]
	}
}

// GetHealthStatus returns the current health status.
func (h *HealthMonitor) GetHealthStatus() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		TotalAttempts:       h.totalAttempts,
		SuccessfulAttempts:  h.successfulAttempts,
		FailedAttempts:      h.failedAttempts,
		ConsecutiveFailures: h.consecutiveFailures,
		RecentFailures:      make([]FailureRecord, len(h.recentFailures)),
		HealthIssues:        []string{},
		IsHealthy:           true,
		SuccessRate:         1.0,
	}
	copy(status.RecentFailures, h.recentFailures)

	if h.totalAttempts > 0 {
		status.SuccessRate = float64(h.successfulAttempts) / float64(h.totalAttempts)
	}
	if !h.lastFailureTime.IsZero() {
		t := h.lastFailureTime
		status.LastFailureTime = &t
	}
	if !h.lastSuccessTime.IsZero() {
		t := h.lastSuccessTime
		status.LastSuccessTime = &t
	}

	if h.totalAttempts >= 10 && status.SuccessRate < (1.0-h.failureThreshold) {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "High live-verification failure rate detected (>20%)")
	}
	if h.consecutiveFailures >= h.consecutiveThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "Multiple consecutive strategy failures detected")
	}

	return status
}

// Reset clears all health monitoring data.
func (h *HealthMonitor) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalAttempts = 0
	h.successfulAttempts = 0
	h.failedAttempts = 0
	h.consecutiveFailures = 0
	h.lastFailureTime = time.Time{}
	h.lastSuccessTime = time.Time{}
	h.recentFailures = h.recentFailures[:0]
}
