// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

// Scope names a family of buckets. Each scope counts independently, so a
// storefront client that exhausts browse quota can still sign in.
type Scope string

const (
	// ScopeBrowse covers every API request, counted per client address.
	ScopeBrowse Scope = "browse"
	// ScopeLogin covers credential endpoints, counted per client address.
	ScopeLogin Scope = "login"
	// ScopeAdmin covers catalog administration, counted per admin account.
	ScopeAdmin Scope = "admin"
)

// Subject extracts the identity a request is counted against.
type Subject func(*http.Request) string

type RateLimitConfig struct {
	Scope   Scope
	Limit   redis_rate.Limit
	Subject Subject
	Skip    func(*http.Request) bool
}

type RateLimiter struct {
	scope   Scope
	limit   redis_rate.Limit
	subject Subject
	skip    func(*http.Request) bool
	redis   *redis_rate.Limiter
	memory  *memoryBuckets
}

// NewRateLimiter counts in Redis when rdb is set. Without Redis, or when a
// Redis call fails, the process keeps its own token buckets.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		scope:   cfg.Scope,
		limit:   cfg.Limit,
		subject: cfg.Subject,
		skip:    cfg.Skip,
		memory:  newMemoryBuckets(),
	}
	if rl.scope == "" {
		rl.scope = ScopeBrowse
	}
	if rl.subject == nil {
		rl.subject = ClientAddr
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Key is the bucket a request lands in: catalog:<scope>:<subject>.
func (rl *RateLimiter) Key(r *http.Request) string {
	return "catalog:" + string(rl.scope) + ":" + rl.subject(r)
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.skip != nil && rl.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.Key(r)
		res := rl.take(r, key)
		rl.writeQuota(w, res)

		if res.Allowed == 0 {
			wait := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			slog.Debug("rate limited", "scope", rl.scope, "key", key)
			core.Fail(w, http.StatusTooManyRequests, fmt.Sprintf(
				"%s quota exhausted, retry after %d seconds", rl.scope, wait,
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(r *http.Request, key string) *redis_rate.Result {
	if rl.redis != nil {
		res, err := rl.redis.Allow(r.Context(), key, rl.limit)
		if err == nil {
			return res
		}
		slog.Warn("redis rate limit unavailable, counting in memory",
			"scope", rl.scope,
			"error", err,
		)
	}
	return rl.memory.take(key, rl.limit)
}

func (rl *RateLimiter) writeQuota(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Scope", string(rl.scope))
	h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`,
		rl.limit.Rate, int(rl.limit.Period.Seconds())))
}

// ClientAddr is the caller's address. The right-most X-Forwarded-For hop is
// the one appended by our own proxy.
func ClientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "addr:" + strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "addr:" + xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

// Account counts authenticated callers by user id so an admin keeps one
// budget across devices. Anonymous requests fall back to ClientAddr.
func Account(r *http.Request) string {
	if id := GetUserID(r.Context()); id != "" {
		return "user:" + id
	}
	return ClientAddr(r)
}

// SkipOperational exempts health and metrics scrapes from browse quota.
func SkipOperational(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz", "/metrics":
		return true
	}
	return false
}

const (
	sweepEvery = 5 * time.Minute
	bucketIdle = 10 * time.Minute
)

type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// memoryBuckets sweeps idle entries inline on access instead of running a
// background goroutine per limiter.
type memoryBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newMemoryBuckets() *memoryBuckets {
	return &memoryBuckets{
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (m *memoryBuckets) take(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	refill := time.Duration(float64(time.Second) / perSecond)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= sweepEvery {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > bucketIdle {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		Allowed:    1,
		RetryAfter: -1,
		ResetAfter: refill,
	}
	if !b.tokens.AllowN(now, 1) {
		res.Allowed = 0
		res.RetryAfter = refill
	}
	res.Remaining = max(int(b.tokens.TokensAt(now)), 0)
	return res
}

// PerWindow builds a limit over the configured window, one minute when unset.
func PerWindow(requests, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: window}
}
