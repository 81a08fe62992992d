package sessions

import (
	"context"
	"log/slog"
	"time"
)

const maxSweepInterval = 5 * time.Minute

// EvictCallback is called after the TTL worker drops a session.
type EvictCallback func(key Key)

// StartTTLWorker runs a background goroutine that periodically evicts idle
// sessions. It stops when ctx is cancelled.
func StartTTLWorker(ctx context.Context, reg *Registry, ttl time.Duration, onEvict EvictCallback) {
	interval := sweepInterval(ttl)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("TTL worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				cleanupExpiredSessions(reg, ttl, onEvict)
			case <-ctx.Done():
				slog.Info("TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval > maxSweepInterval {
		interval = maxSweepInterval
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func cleanupExpiredSessions(reg *Registry, ttl time.Duration, onEvict EvictCallback) int {
	expired := reg.Expired(ttl)
	if len(expired) == 0 {
		return 0
	}

	slog.Info("TTL worker found expired sessions", "count", len(expired))

	cleaned := 0
	for _, key := range expired {
		if !reg.evictIfIdle(key, ttl) {
			continue
		}
		cleaned++
		if onEvict != nil {
			onEvict(key)
		}
	}

	slog.Info("TTL worker cleanup completed", "cleaned", cleaned)
	return cleaned
}
