package gists

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/gistproxy/pkg/ports"
	"go.uber.org/zap"
)

// CacheMonitor periodically samples cache statistics, logs them and
// updates the cache entry gauges.
type CacheMonitor struct {
	cache    ports.Cache
	metrics  ports.MetricsCollector
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewCacheMonitor creates a new cache monitor
func NewCacheMonitor(cache ports.Cache, metrics ports.MetricsCollector, interval time.Duration, logger *zap.Logger) *CacheMonitor {
	return &CacheMonitor{
		cache:    cache,
		metrics:  metrics,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the monitor loop
func (m *CacheMonitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.run()
}

// Stop stops the monitor loop
func (m *CacheMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
}

// run is the main monitoring loop
func (m *CacheMonitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

// sample reads cache stats, logs them and records the gauges
func (m *CacheMonitor) sample() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	stats, err := m.cache.Stats(ctx)
	if err != nil {
		m.logger.Error("failed to sample cache stats", zap.Error(err))
		return
	}

	m.logger.Info("cache stats",
		zap.Int("total", stats.TotalEntries),
		zap.Int("valid", stats.ValidEntries),
		zap.Int("expired", stats.ExpiredEntries))

	m.metrics.SetCacheEntries(stats.ValidEntries, stats.ExpiredEntries)
}
