package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sniplink/internal/utils"
)

// LimitConfig allows Attempts requests per client IP, regained evenly over Window.
type LimitConfig struct {
	Attempts   int
	Window     time.Duration
	MaxClients int    // tracked clients before caught-up entries are dropped (0 = no cap)
	TrustProxy bool   // resolve IP from proxy headers when true
	Message    string // JSON error returned on 429 (default: "Too many requests")
	Now        func() time.Time
}

// attemptLimiter keeps one theoretical arrival time per client (GCRA).
// A client whose arrival time is in the past holds its full allowance.
type attemptLimiter struct {
	cfg       LimitConfig
	interval  time.Duration // cost of one attempt
	mu        sync.Mutex
	arrivals  map[string]time.Time
	lastPrune time.Time
}

func newAttemptLimiter(cfg LimitConfig) *attemptLimiter {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Message == "" {
		cfg.Message = "Too many requests"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	interval := cfg.Window / time.Duration(cfg.Attempts)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return &attemptLimiter{
		cfg:       cfg,
		interval:  interval,
		arrivals:  make(map[string]time.Time),
		lastPrune: cfg.Now(),
	}
}

// take spends one attempt for client. On refusal wait is how long until
// the next attempt would be accepted.
func (l *attemptLimiter) take(client string, now time.Time) (ok bool, left int, wait time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	tat, seen := l.arrivals[client]
	if !seen || tat.Before(now) {
		tat = now
	}
	next := tat.Add(l.interval)
	if ahead := next.Sub(now); ahead > l.cfg.Window {
		return false, 0, ahead - l.cfg.Window
	}
	l.arrivals[client] = next
	return true, int((l.cfg.Window - next.Sub(now)) / l.interval), 0
}

// pruneLocked forgets clients that are fully caught up. It runs once per
// Window, or early when MaxClients is reached.
func (l *attemptLimiter) pruneLocked(now time.Time) {
	full := l.cfg.MaxClients > 0 && len(l.arrivals) >= l.cfg.MaxClients
	if !full && now.Sub(l.lastPrune) < l.cfg.Window {
		return
	}
	for client, tat := range l.arrivals {
		if !tat.After(now) {
			delete(l.arrivals, client)
		}
	}
	l.lastPrune = now
}

// RateLimit refuses a client with 429 once it has used its Attempts within Window.
func RateLimit(cfg LimitConfig) func(http.Handler) http.Handler {
	l := newAttemptLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Attempts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, left, wait := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				deny(w, http.StatusTooManyRequests, l.cfg.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
