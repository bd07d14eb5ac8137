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

const msgTooManyRequests = "Too many requests from this IP, please try again later."

// RateLimiter throttles requests per client IP with a token bucket. Each IP
// may burst up to the configured number of requests, and the bucket refills
// evenly so the same number becomes available again over one window.
//
// Visitors idle for longer than a window are dropped from the map on the next
// request after a window has elapsed, which keeps memory bounded without a
// background goroutine.
type RateLimiter struct {
	requests int
	window   time.Duration
	every    rate.Limit
	now      func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastPrune time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each client IP.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return newRateLimiter(requests, window, time.Now)
}

func newRateLimiter(requests int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		requests:  requests,
		window:    window,
		every:     rate.Every(window / time.Duration(requests)),
		now:       now,
		visitors:  make(map[string]*visitor),
		lastPrune: now(),
	}
}

// Handler is the middleware. It sets RateLimit-Limit and RateLimit-Remaining
// on every response and answers 429 with Retry-After once a client's bucket
// is empty.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := rl.now()
		lim := rl.limiter(clientIP(r), now)

		res := lim.ReserveN(now, 1)
		if delay := res.DelayFrom(now); delay > 0 {
			res.CancelAt(now)
			w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.requests))
			w.Header().Set("RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeError(w, http.StatusTooManyRequests, msgTooManyRequests, "")
			return
		}

		remaining := int(math.Max(0, math.Floor(lim.TokensAt(now))))
		w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.requests))
		w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

// limiter returns the bucket for ip, creating it on first sight.
func (rl *RateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastPrune) >= rl.window {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.window {
				delete(rl.visitors, k)
			}
		}
		rl.lastPrune = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.requests)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already replaced RemoteAddr with the forwarded client address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
