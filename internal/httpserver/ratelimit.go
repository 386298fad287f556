// internal/httpserver/ratelimit.go
//
// Per-client request rate limiting.
// Responsibilities:
//   - One token bucket per client key, refilled at perMin tokens a minute.
//   - Key selection: the verified game session for in-game routes, the
//     client host (port stripped) for everything else.
//   - POST /game/new is always keyed on the host, so minting fresh sessions
//     cannot reset the budget.
//   - Pruning idle buckets (called from the janitor).
//
// Notes:
//   - RemoteAddr only reflects X-Forwarded-For when the server is configured
//     to trust a proxy (see Options.TrustProxy).

package httpserver

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is a token bucket plus the last time it was used.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiter rate-limits requests per client key (game session or remote host).
type limiter struct {
	mu      sync.Mutex
	perMin  int
	clients map[string]*clientLimiter
	now     func() time.Time
}

func newLimiter(perMinute int) *limiter {
	return &limiter{
		perMin:  perMinute,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.perMin)}
		l.clients[key] = c
	}
	c.lastAccess = l.now()
	return c.limiter.AllowN(c.lastAccess, 1)
}

// prune drops limiters unused for longer than idle.
func (l *limiter) prune(idle time.Duration) {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, c := range l.clients {
		if c.lastAccess.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

// clientHost returns the host part of r.RemoteAddr, or the raw value when it
// carries no port.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// keyFor picks the bucket for r.
func keyFor(r *http.Request, tokens *Tokens) string {
	key := "ip:" + clientHost(r)
	if r.URL.Path == "/game/new" || tokens == nil {
		return key
	}
	if raw := bearerOrCookie(r); raw != "" {
		if id, err := tokens.Parse(raw); err == nil {
			return "game:" + id
		}
	}
	return key
}

func (l *limiter) middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(keyFor(r, tokens)) {
				w.Header().Set("Retry-After", strconv.Itoa(60/max(l.perMin, 1)+1))
				writeError(w, http.StatusTooManyRequests, "rate_limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
