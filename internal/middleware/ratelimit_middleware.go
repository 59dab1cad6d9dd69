package middleware

import (
	"net/http"
	"sync"
	"time"

	"tempo/internal/errorx"

	"github.com/jonboulle/clockwork"
	"github.com/zeromicro/go-zero/rest/httpx"
	"golang.org/x/time/rate"
)

// idleTTLWithoutRefill bounds how long a bucket that never refills is kept.
const idleTTLWithoutRefill = time.Hour

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per caller: the user id when
// authenticated, the remote address otherwise. Buckets idle long enough to
// have refilled are dropped, since a fresh one behaves the same.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	clock     clockwork.Clock
	idleTTL   time.Duration
	lastSweep time.Time
}

func NewRateLimitMiddleware(limit rate.Limit, burst int) *RateLimitMiddleware {
	return NewRateLimitMiddlewareWithClock(limit, burst, clockwork.NewRealClock())
}

func NewRateLimitMiddlewareWithClock(limit rate.Limit, burst int, clock clockwork.Clock) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		clock:     clock,
		idleTTL:   refillTime(limit, burst),
		lastSweep: clock.Now(),
	}
}

// refillTime is how long an empty bucket takes to fill up again.
func refillTime(limit rate.Limit, burst int) time.Duration {
	if limit == rate.Inf {
		return 0
	}
	if limit <= 0 {
		return idleTTLWithoutRefill
	}
	return time.Duration(float64(burst) / float64(limit) * float64(time.Second))
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if now.Sub(m.lastSweep) >= m.idleTTL {
		m.cleanupLocked(now)
	}

	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup drops every bucket that has been idle for a full refill period.
func (m *RateLimitMiddleware) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked(m.clock.Now())
}

func (m *RateLimitMiddleware) cleanupLocked(now time.Time) {
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) >= m.idleTTL {
			delete(m.visitors, key)
		}
	}
	m.lastSweep = now
}

// Len is the number of callers currently tracked.
func (m *RateLimitMiddleware) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}

func (m *RateLimitMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := UserIdFrom(r.Context())
		if key == "" {
			key = r.RemoteAddr
		}
		if !m.allow(key) {
			httpx.ErrorCtx(r.Context(), w, errorx.TooManyRequests("rate limit exceeded, please try again later"))
			return
		}
		next(w, r)
	}
}
