package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// The Postgres account store registers itself at startup; the in-memory
// store has nothing to check.
type HealthChecker interface {
	// Name returns a unique identifier for this health check.
	// Used in health check responses to identify which component failed.
	Name() string

	// Check performs the health check and returns an error if unhealthy.
	// Implementations should respect context cancellation and deadlines.
	// A nil return indicates the component is healthy.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
// Components register themselves at startup, and the registry
// runs all checks when queried.
type HealthRegistry interface {
	// Register adds a health checker to the registry.
	// Returns an error if a checker with the same name is already registered.
	// Should be called during application startup.
	Register(checker HealthChecker) error

	// CheckAll runs all registered health checks and returns aggregated results.
	// Checks run concurrently, each bounded by the registry's check timeout.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy indicates all checks passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusUnhealthy indicates critical checks failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	// Status is the overall health status.
	Status HealthStatus `json:"status"`

	// Checks contains individual check results keyed by checker name.
	Checks map[string]*CheckResult `json:"checks"`

	// Timestamp is when the health check was performed.
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	// Status is the health status of this component.
	Status HealthStatus `json:"status"`

	// Message provides additional context, especially on failure.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`
}

// DefaultHealthCheckTimeout bounds a single check when the caller's
// context has no earlier deadline.
const DefaultHealthCheckTimeout = 2 * time.Second

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	clock    Clock
	timeout  time.Duration
}

// HealthRegistryOption configures a DefaultHealthRegistry.
type HealthRegistryOption func(*DefaultHealthRegistry)

// WithHealthClock sets the clock used to stamp results.
func WithHealthClock(c Clock) HealthRegistryOption {
	return func(r *DefaultHealthRegistry) {
		r.clock = c
	}
}

// WithCheckTimeout bounds each individual check. Zero disables the bound.
func WithCheckTimeout(d time.Duration) HealthRegistryOption {
	return func(r *DefaultHealthRegistry) {
		r.timeout = d
	}
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry(opts ...HealthRegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{
		checkers: make([]HealthChecker, 0),
		clock:    ClockFunc(time.Now),
		timeout:  DefaultHealthCheckTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a health checker to the registry.
// Returns an error if a checker with the same name is already registered.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs all registered health checks concurrently. Any failing
// check marks the whole result unhealthy.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.clock.Now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, checker := range checkers {
		wg.Go(func() {
			checkResult := r.run(ctx, checker)

			mu.Lock()
			defer mu.Unlock()

			result.Checks[checker.Name()] = checkResult
			if checkResult.Status == HealthStatusUnhealthy {
				result.Status = HealthStatusUnhealthy
			}
		})
	}

	wg.Wait()

	return result
}

func (r *DefaultHealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := checker.Check(ctx)

	res := &CheckResult{
		Status:   HealthStatusHealthy,
		Duration: time.Since(start),
	}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
