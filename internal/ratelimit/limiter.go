// Package ratelimit throttles expensive schedule operations per event and
// per caller.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	// EventCooldown is the minimum time between regenerations of one event.
	EventCooldown time.Duration
	// CallerMaxPerHour caps regenerations requested by one caller per hour.
	CallerMaxPerHour int

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		EventCooldown:    30 * time.Second,
		CallerMaxPerHour: 60,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request (for cooldown)
}

// Limiter tracks schedule regenerations in memory.
type Limiter struct {
	config   *Config
	clock    Clock
	mu       sync.RWMutex
	byEvent  map[string]*entry
	byCaller map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byEvent:       make(map[string]*entry),
		byCaller:      make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckRegenerate reports whether callerID may regenerate eventID now.
// It does not record the attempt; call RecordRegenerate once the request
// is accepted.
func (l *Limiter) CheckRegenerate(eventID, callerID string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	eventKey := normalizeKey(eventID)
	callerKey := normalizeKey(callerID)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.byEvent[eventKey]; e != nil && l.config.EventCooldown > 0 {
		if elapsed := now.Sub(e.lastAt); elapsed < l.config.EventCooldown {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.EventCooldown - elapsed,
				Reason:     "event_cooldown",
			}
		}
	}

	if e := l.byCaller[callerKey]; e != nil && l.config.CallerMaxPerHour > 0 {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.CallerMaxPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "caller_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// RecordRegenerate records an accepted regeneration.
func (l *Limiter) RecordRegenerate(eventID, callerID string) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	bump(l.byEvent, normalizeKey(eventID), now)
	bump(l.byCaller, normalizeKey(callerID), now)
}

func bump(entries map[string]*entry, key string, now time.Time) {
	e := entries[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func normalizeKey(value string) string {
	return strings.TrimSpace(value)
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	maxAge := time.Hour
	if l.config.EventCooldown > maxAge {
		maxAge = l.config.EventCooldown
	}
	for k, e := range l.byEvent {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.byEvent, k)
		}
	}
	for k, e := range l.byCaller {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byCaller, k)
		}
	}
}
