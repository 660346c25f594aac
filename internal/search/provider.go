package search

import (
	"context"
	"fmt"
	"time"
)

// Provider identifies which backend answers search and suggest calls for the
// remainder of a session.
type Provider string

const (
	ProviderUnknown Provider = ""
	ProviderAPI     Provider = "api"
	ProviderDemo    Provider = "demo"
)

// probePaths is the reachability fallback chain: dedicated ping, generic
// health, then a minimal real query. The first success selects the API.
var probePaths = []string{
	"/search/ping",
	"/health",
	"/search?q=ping&limit=1",
}

func (s *Service) providerKey() string {
	return "search:provider:" + s.sessionID
}

// GetProvider returns the current provider, or ProviderUnknown when the
// session has not run a search yet.
func (s *Service) GetProvider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// SubscribeProvider registers a callback for provider changes and returns an
// unsubscribe function. If the provider is already known the callback fires
// once immediately.
func (s *Service) SubscribeProvider(fn func(Provider)) func() {
	s.mu.Lock()
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = fn
	known := s.provider
	s.mu.Unlock()

	if known != ProviderUnknown {
		fn(known)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// ensureProvider resolves the provider choice exactly once per session.
// Public operations call it before doing anything else, so callers never
// race the decision.
func (s *Service) ensureProvider(ctx context.Context) Provider {
	s.mu.Lock()
	if s.provider != ProviderUnknown {
		provider := s.provider
		s.mu.Unlock()
		return provider
	}
	s.mu.Unlock()

	// Serializes concurrent first calls so only one of them probes.
	s.probeMu.Lock()
	defer s.probeMu.Unlock()

	s.mu.Lock()
	if s.provider != ProviderUnknown {
		provider := s.provider
		s.mu.Unlock()
		return provider
	}
	s.mu.Unlock()

	provider := s.determineProvider(ctx)
	s.setProvider(ctx, provider)
	return provider
}

func (s *Service) determineProvider(ctx context.Context) Provider {
	if stored, err := s.sessions.Get(ctx, s.providerKey()); err == nil {
		if p := Provider(stored); p == ProviderAPI || p == ProviderDemo {
			s.logger.WithField("provider", p).Debug("Reusing provider choice from session")
			return p
		}
	}

	if s.remote == nil {
		return ProviderDemo
	}

	for _, path := range probePaths {
		probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
		err := s.remote.Probe(probeCtx, path)
		cancel()

		if err == nil {
			s.logger.WithField("path", path).Info("Search API reachable, using API provider")
			return ProviderAPI
		}

		// Probe failures never propagate; the next endpoint gets its turn.
		s.logger.WithError(err).WithField("path", path).Debug("Search API probe failed")
	}

	s.logger.Info("Search API unreachable, falling back to demo provider")
	return ProviderDemo
}

func (s *Service) setProvider(ctx context.Context, provider Provider) {
	if err := s.sessions.Set(ctx, s.providerKey(), string(provider)); err != nil {
		s.logger.WithError(err).Warn("Failed to persist provider choice")
	}

	s.mu.Lock()
	s.provider = provider
	callbacks := make([]func(Provider), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(provider)
	}
}

// RefreshSearchData clears the response cache and the stored provider choice
// so the next search re-probes from scratch.
func (s *Service) RefreshSearchData(ctx context.Context) error {
	s.cache.clear()

	if err := s.sessions.Delete(ctx, s.providerKey()); err != nil {
		return fmt.Errorf("failed to clear stored provider: %w", err)
	}

	s.mu.Lock()
	s.provider = ProviderUnknown
	s.mu.Unlock()

	s.logger.Info("Search data refreshed, provider will re-probe on next use")
	return nil
}

// sleepFor waits for d or until the context is cancelled; used for
// demo-mode latency simulation.
func sleepFor(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
