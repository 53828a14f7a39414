package chain

import (
	"context"
	"errors"
	"log/slog"
)

// Status classifies the outcome of a single provider attempt. A provider
// without credentials is skipped and never counts as a failure.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

// String renders the status for audit logs.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Attempt records what happened with one provider during a chain run.
type Attempt struct {
	Provider string
	Status   Status
	Err      error
}

// ErrExhausted is returned when every provider in the chain failed or was
// unconfigured.
var ErrExhausted = errors.New("all providers failed or unconfigured")

// Provider is one interchangeable external text service. Configured reports
// whether the adapter has the credentials it needs; Invoke performs a single
// bounded call.
type Provider[Req any] interface {
	Name() string
	Configured() bool
	Invoke(ctx context.Context, req Req) (string, error)
}

// Run walks the providers in priority order and returns the first success.
// Exactly one pass: no provider is retried, and nothing after the winner is
// invoked. The attempt list allows reconstructing the chain outcome later.
func Run[Req any](ctx context.Context, logger *slog.Logger, providers []Provider[Req], req Req) (string, []Attempt, error) {
	attempts := make([]Attempt, 0, len(providers))

	for _, p := range providers {
		if !p.Configured() {
			attempts = append(attempts, Attempt{Provider: p.Name(), Status: StatusSkipped})
			if logger != nil {
				logger.Debug("provider not configured, skipping", "provider", p.Name())
			}
			continue
		}

		text, err := p.Invoke(ctx, req)
		if err != nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Status: StatusFailed, Err: err})
			if logger != nil {
				logger.Warn("provider attempt failed", "provider", p.Name(), "error", err)
			}
			continue
		}

		attempts = append(attempts, Attempt{Provider: p.Name(), Status: StatusOK})
		if logger != nil {
			logger.Info("provider succeeded", "provider", p.Name())
		}
		return text, attempts, nil
	}

	return "", attempts, ErrExhausted
}
