package ratelim

import (
	"net"
	"net/http"
	"sync"
	"time"

	"eventspark/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client's limiter is kept.
const visitorTTL = 10 * time.Minute

// sweepEvery bounds how often getLimiter scans for idle clients.
const sweepEvery = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands each client IP its own token bucket.
type RateLimiter struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	now       func() time.Time
	lastSweep time.Time

	limit rate.Limit
	burst int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Get or create a rate limiter for an IP. A client keeps its bucket for as
// long as it stays active; only clients idle past visitorTTL are forgotten.
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepEvery {
		rl.sweep(now)
	}

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = now
		return v.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: now}
	return limiter
}

// sweep must be called with rl.mu held.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next(w, r, ps)
	}
}
