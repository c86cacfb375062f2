// Package resolution decides what a visit to a short code shows: a redirect,
// an expiry notice, or not-found.
package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// DefaultDelay is how long the redirecting state is shown before navigating.
const DefaultDelay = time.Second

// State is what the resolution view displays.
type State string

const (
	// StateRedirecting is transient: navigation follows after the delay.
	StateRedirecting State = "redirecting"
	// StateNotFound is terminal.
	StateNotFound State = "not_found"
	// StateExpired is terminal; removal of the code has been requested.
	StateExpired State = "expired"
)

// Outcome is the result of resolving one code.
type Outcome struct {
	Code        shortener.Code
	State       State
	Destination string
	ExpiresAt   time.Time
	Delay       time.Duration
}

// Resolver looks codes up and requests removal of the expired ones.
type Resolver struct {
	registry       shortener.Reader
	publishExpired messaging.Publish[shortener.ExpiryObservedEvent]
	now            shortener.Clock
	delay          time.Duration
	logger         *zap.Logger
}

// NewResolver creates a resolver reading from registry. Expired codes are reported
// through publishExpired; the registry owner performs the removal.
func NewResolver(
	registry shortener.Reader,
	publishExpired messaging.Publish[shortener.ExpiryObservedEvent],
	now shortener.Clock,
	delay time.Duration,
	logger *zap.Logger,
) *Resolver {
	if now == nil {
		now = time.Now
	}

	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Resolver{
		registry:       registry,
		publishExpired: publishExpired,
		now:            now,
		delay:          delay,
		logger:         logger,
	}
}

// Delay returns the pause before navigation in the redirecting state.
func (r *Resolver) Delay() time.Duration {
	return r.delay
}

// Resolve returns the state to display for code. Only registry failures are errors.
func (r *Resolver) Resolve(ctx context.Context, code shortener.Code) (Outcome, error) {
	record, err := r.registry.Get(ctx, code)
	if errors.Is(err, shortener.ErrNotFound) {
		return Outcome{Code: code, State: StateNotFound}, nil
	}

	if err != nil {
		return Outcome{}, fmt.Errorf("resolve %q: %w", code, err)
	}

	now := r.now()
	if record.Expired(now) {
		r.requestRemoval(code, record, now)

		return Outcome{Code: code, State: StateExpired, ExpiresAt: record.ExpiresAt}, nil
	}

	return Outcome{
		Code:        code,
		State:       StateRedirecting,
		Destination: record.DestinationURL,
		ExpiresAt:   record.ExpiresAt,
		Delay:       r.delay,
	}, nil
}

// requestRemoval is fire-and-forget: a failure only leaves the entry for the next visit.
func (r *Resolver) requestRemoval(code shortener.Code, record shortener.Record, now time.Time) {
	event := &shortener.ExpiryObservedEvent{
		Code:       string(code),
		ExpiresAt:  record.ExpiresAt,
		ObservedAt: now,
	}

	if err := r.publishExpired(event); err != nil {
		r.logger.Error("failed to request removal of expired code",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}
