// Package fetcher discovers candidate articles from the configured web
// sources. Each source kind (RSS feed, HTML listing) is a registered strategy
// resolved by name at fetch time.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
)

// Strategy captures a single discovery implementation for one source kind.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, src domain.Source) ([]domain.ArticleRef, error)
}

// Registry keeps a mapping from source kinds to their strategies.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if s, ok := r.strategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("source kind %s is not registered", name)
}

// RegistrySource implements ports.ArticleSource via registered strategies.
type RegistrySource struct {
	registry *Registry
	sources  []domain.Source
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*RegistrySource)(nil)

// NewRegistrySource wires the strategy registry with config-defined sources.
func NewRegistrySource(reg *Registry, sources []domain.Source, log *slog.Logger) *RegistrySource {
	return &RegistrySource{registry: reg, sources: sources, logger: log}
}

// Sources returns the configured source list in order.
func (s *RegistrySource) Sources() []domain.Source {
	return s.sources
}

// FetchSource resolves the strategy for the source kind and runs it,
// de-duplicating by URL within the result.
func (s *RegistrySource) FetchSource(ctx context.Context, src domain.Source) ([]domain.ArticleRef, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("strategy registry is not configured")
	}

	strategy, err := s.registry.Resolve(src.Kind)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}

	refs, err := strategy.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch source %s: %w", src.Name, err)
	}

	seen := map[string]struct{}{}
	unique := make([]domain.ArticleRef, 0, len(refs))
	for _, ref := range refs {
		if ref.URL == "" {
			continue
		}
		if _, ok := seen[ref.URL]; ok {
			continue
		}
		seen[ref.URL] = struct{}{}
		if ref.Origin == "" {
			ref.Origin = src.Name
		}
		unique = append(unique, ref)
	}

	s.debug("source fetched", "source", src.Name, "kind", src.Kind, "refs", len(unique))
	return unique, nil
}

func (s *RegistrySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
