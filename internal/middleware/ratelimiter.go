package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a bucket may go unused before it is dropped.
const DefaultLimiterIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AccountLimiter keeps one token bucket per ledger account. Requests that
// carry no account (login, signed internal calls) share a bucket per client IP.
type AccountLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewAccountLimiter(r rate.Limit, b int) *AccountLimiter {
	return &AccountLimiter{
		buckets: make(map[string]*bucket),
		r:       r,
		b:       b,
		idleTTL: DefaultLimiterIdleTTL,
		now:     time.Now,
	}
}

// allow spends one token from key's bucket. When the bucket is empty it
// reports how long the caller should wait for the next token.
func (l *AccountLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	bk, ok := l.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(l.r, l.b)}
		l.buckets[key] = bk
	}
	bk.lastSeen = now

	if bk.limiter.AllowN(now, 1) {
		return true, 0
	}
	if l.r <= 0 {
		return false, time.Second
	}
	return false, time.Duration(float64(time.Second) / float64(l.r))
}

// sweep drops buckets idle for longer than idleTTL, at most once per idleTTL.
// An idle bucket has refilled anyway, so dropping it changes nothing for the
// account. Must be called with mu held.
func (l *AccountLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, bk := range l.buckets {
		if now.Sub(bk.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *AccountLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func limiterKey(r *http.Request) string {
	if accountID, ok := GetUserID(r.Context()); ok {
		return "account:" + strconv.FormatInt(accountID, 10)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// RateLimit rejects requests over the account's budget with 429, a
// Retry-After header in whole seconds and a JSON error body.
func RateLimit(l *AccountLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.allow(limiterKey(r))
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
