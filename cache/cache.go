// Package cache keeps an in-memory snapshot of the owner-managed
// configuration (asset allowlist, peer coordinator reference) so read paths
// never touch the database. Data can only be changed via Update.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AdminConfig is a point-in-time snapshot of the admin surface.
type AdminConfig struct {
	SupportedAssets []string
	PeerCoordinator string
}

// Cache is a thread-safe holder for the latest AdminConfig.
type Cache struct {
	mu              sync.RWMutex
	assets          map[string]struct{}
	peerCoordinator string
	lastUpdate      time.Time
	logger          zerolog.Logger
}

// New creates a new Cache instance.
func New(logger zerolog.Logger) *Cache {
	return &Cache{
		assets: make(map[string]struct{}),
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// LastUpdated returns the last time the cache was refreshed.
func (c *Cache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// Update atomically replaces the entire snapshot.
func (c *Cache) Update(cfg AdminConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newAssets := make(map[string]struct{}, len(cfg.SupportedAssets))
	for _, asset := range cfg.SupportedAssets {
		if asset == "" {
			continue
		}
		newAssets[asset] = struct{}{}
	}

	c.assets = newAssets
	c.peerCoordinator = cfg.PeerCoordinator
	c.lastUpdate = time.Now()

	c.logger.Debug().
		Int("assets", len(newAssets)).
		Str("peer_coordinator", cfg.PeerCoordinator).
		Msg("admin config snapshot updated")
}

// IsAssetSupported reports whether an asset id is on the allowlist.
func (c *Cache) IsAssetSupported(asset string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.assets[asset]
	return ok
}

// SupportedAssets returns the allowlisted asset ids.
func (c *Cache) SupportedAssets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.assets))
	for asset := range c.assets {
		out = append(out, asset)
	}
	return out
}

// PeerCoordinator returns the peer-chain coordinator reference.
func (c *Cache) PeerCoordinator() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peerCoordinator
}
