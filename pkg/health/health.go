// Package health exposes liveness and readiness endpoints backed by
// periodically evaluated named checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Check probes one dependency. A nil return means healthy.
type Check func(ctx context.Context) error

type namedCheck struct {
	name    string
	timeout time.Duration
	fn      Check
}

// Service evaluates registered checks on an interval and serves the
// cached results over HTTP.
type Service struct {
	mu        sync.RWMutex
	liveness  []namedCheck
	readiness []namedCheck
	failures  map[string]string
	ready     bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New returns a Service with no checks registered and readiness false.
func New() *Service {
	return &Service{
		failures: make(map[string]string),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// AddLivenessCheck registers a check gating the liveness endpoint.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, namedCheck{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check gating the readiness endpoint.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, namedCheck{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness gate, used to drain before
// shutdown.
func (s *Service) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start begins evaluating checks every interval until Stop or context
// cancellation. Checks run once immediately.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.evaluate(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.evaluate(ctx)
			}
		}
	}()
}

// Stop halts the evaluation loop.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Service) evaluate(ctx context.Context) {
	s.mu.RLock()
	checks := make([]namedCheck, 0, len(s.liveness)+len(s.readiness))
	checks = append(checks, s.liveness...)
	checks = append(checks, s.readiness...)
	s.mu.RUnlock()

	failures := make(map[string]string)
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.fn(cctx); err != nil {
			failures[c.name] = err.Error()
		}
		cancel()
	}

	s.mu.Lock()
	s.failures = failures
	s.mu.Unlock()
}

// LiveEndpoint serves the liveness status: 200 when every liveness
// check passed at the last evaluation, 503 otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respond(w, s.failing(s.liveness), true)
}

// ReadyEndpoint serves the readiness status: 200 when SetReady(true)
// was called and every readiness check passed, 503 otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respond(w, s.failing(s.readiness), s.ready)
}

// failing must be called with the mutex held.
func (s *Service) failing(checks []namedCheck) map[string]string {
	out := make(map[string]string)
	for _, c := range checks {
		if msg, ok := s.failures[c.name]; ok {
			out[c.name] = msg
		}
	}
	return out
}

func (s *Service) respond(w http.ResponseWriter, failures map[string]string, gate bool) {
	status := http.StatusOK
	if !gate || len(failures) > 0 {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]any{"status": http.StatusText(status)}
	if len(failures) > 0 {
		body["failures"] = failures
	}
	_ = json.NewEncoder(w).Encode(body)
}
