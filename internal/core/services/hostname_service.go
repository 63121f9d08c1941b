package services

import (
	"context"
	"sync"
	"time"

	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
)

type HostnameServiceConfig struct {
	Resolver ports.HostnameResolver
	Logger   *logger.Logger
	// TTL bounds how long a cached answer outlives its session activity.
	// Zero means entries only go away via Invalidate.
	TTL time.Duration
}

type hostnameEntry struct {
	resolved  domain.ResolvedHostname
	expiresAt time.Time
}

// hostnameService fronts the directory resolver with a session-keyed cache.
// One resolution attempt per session, absent results included, so an
// inventory outage costs each session at most one slow lookup.
type hostnameService struct {
	resolver ports.HostnameResolver
	logger   *logger.Logger
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]hostnameEntry
}

func NewHostnameService(cfg HostnameServiceConfig) ports.HostnameService {
	return &hostnameService{
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		ttl:      cfg.TTL,
		entries:  make(map[string]hostnameEntry),
	}
}

func (s *hostnameService) ResolveForSession(ctx context.Context, sessionID, identity string) domain.ResolvedHostname {
	if sessionID == "" {
		// No session to key on; resolve without caching.
		return s.resolver.Resolve(ctx, identity)
	}

	now := time.Now()

	s.mu.Lock()
	if entry, ok := s.entries[sessionID]; ok {
		if s.ttl <= 0 || now.Before(entry.expiresAt) {
			s.mu.Unlock()
			return entry.resolved
		}
		delete(s.entries, sessionID)
	}
	s.mu.Unlock()

	// Resolve outside the lock; the inventory query can take seconds.
	resolved := s.resolver.Resolve(ctx, identity)

	s.mu.Lock()
	s.entries[sessionID] = hostnameEntry{
		resolved:  resolved,
		expiresAt: now.Add(s.ttl),
	}
	s.mu.Unlock()

	s.logger.Infow("hostname_resolved",
		"session_id", sessionID,
		"found", resolved.Found,
		"hostname", resolved.Hostname,
	)
	return resolved
}

func (s *hostnameService) Invalidate(sessionID string) {
	s.mu.Lock()
	_, existed := s.entries[sessionID]
	delete(s.entries, sessionID)
	s.mu.Unlock()

	if existed {
		s.logger.Infow("hostname_cache_invalidated", "session_id", sessionID)
	}
}
