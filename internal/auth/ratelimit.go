package auth

import (
	"sync"
	"time"
)

// LoginThrottle limits failed logins per client IP and username. Records are
// pruned lazily on each failure, so no background goroutine is needed.
type LoginThrottle struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

type ThrottleConfig struct {
	MaxAttempts int           // failures allowed within Window (default: 5)
	Window      time.Duration // default: 15m
	Lockout     time.Duration // default: 30m
}

func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
		Lockout:     30 * time.Minute,
	}
}

func NewLoginThrottle(cfg ThrottleConfig) *LoginThrottle {
	def := DefaultThrottleConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = def.Lockout
	}

	return &LoginThrottle{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		now:         time.Now,
	}
}

func throttleKey(ip, username string) string {
	return ip + ":" + username
}

// Allow reports whether another attempt may be made, and if not, how long
// until the lockout ends.
func (t *LoginThrottle) Allow(ip, username string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.attempts[throttleKey(ip, username)]
	if !ok {
		return true, 0
	}

	now := t.now()
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// Failure counts a rejected attempt and reports whether it triggered a lockout.
func (t *LoginThrottle) Failure(ip, username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.pruneLocked(now)

	key := throttleKey(ip, username)
	record, ok := t.attempts[key]
	if !ok || now.Sub(record.firstAttempt) > t.window {
		record = &attemptRecord{firstAttempt: now}
		t.attempts[key] = record
	}

	record.count++
	if record.count >= t.maxAttempts {
		record.lockedUntil = now.Add(t.lockout)
		record.count = 0
		record.firstAttempt = now
		return true
	}
	return false
}

// Success forgets earlier failures.
func (t *LoginThrottle) Success(ip, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, throttleKey(ip, username))
}

func (t *LoginThrottle) pruneLocked(now time.Time) {
	for key, record := range t.attempts {
		if now.Sub(record.firstAttempt) > t.window && !now.Before(record.lockedUntil) {
			delete(t.attempts, key)
		}
	}
}
