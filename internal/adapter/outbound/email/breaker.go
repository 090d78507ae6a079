package email

import (
	"context"
	"errors"
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// EmailRecorder receives delivery outcomes. *metrics.Metrics satisfies it.
type EmailRecorder interface {
	RecordEmail(template, outcome string)
}

// BreakerConfig contains circuit breaker configuration.
type BreakerConfig struct {
	FailureThreshold    uint32
	Timeout             time.Duration
	MaxHalfOpenRequests uint32
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold:    5,
		Timeout:             60 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// BreakerNotifier fails fast once the mail relay keeps failing, so a sweep
// over many subscriptions does not wait on each send.
type BreakerNotifier struct {
	next     outbound.SubscriptionNotifierPort
	breaker  *gobreaker.CircuitBreaker[any]
	recorder EmailRecorder
	logger   *zap.Logger
}

// NewBreakerNotifier wraps next with a circuit breaker. recorder may be nil.
func NewBreakerNotifier(next outbound.SubscriptionNotifierPort, cfg *BreakerConfig, recorder EmailRecorder, logger *zap.Logger) *BreakerNotifier {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	threshold := cfg.FailureThreshold

	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("email circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerNotifier{
		next:     next,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
		recorder: recorder,
		logger:   logger,
	}
}

func (b *BreakerNotifier) SendRenewalSucceeded(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	return b.execute(templateRenewalSucceeded, func() error {
		return b.next.SendRenewalSucceeded(ctx, user, sub, amount)
	})
}

func (b *BreakerNotifier) SendRenewalFailed(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	return b.execute(templateRenewalFailed, func() error {
		return b.next.SendRenewalFailed(ctx, user, sub, amount)
	})
}

// State returns the current breaker state.
func (b *BreakerNotifier) State() gobreaker.State {
	return b.breaker.State()
}

func (b *BreakerNotifier) execute(tmpl string, fn func() error) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, fn()
	})

	outcome := "sent"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case err != nil:
		outcome = "failed"
	}
	if b.recorder != nil {
		b.recorder.RecordEmail(tmpl, outcome)
	}
	return err
}

// Compile-time check
var _ outbound.SubscriptionNotifierPort = (*BreakerNotifier)(nil)
