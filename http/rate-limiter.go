package http

import (
	"net"
	"net/http"

	"github.com/programme-lv/dsalearn/httpjson"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/time/rate"
)

const errCodeTooManyRequests = "too_many_requests"

// ipRateLimiter keeps one token bucket per client address.
type ipRateLimiter struct {
	limiters *xsync.MapOf[string, *rate.Limiter]
	r        rate.Limit
	b        int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	if b < 1 {
		b = 1
	}
	return &ipRateLimiter{
		limiters: xsync.NewMapOf[string, *rate.Limiter](),
		r:        r,
		b:        b,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrCompute(ip, func() *rate.Limiter {
		return rate.NewLimiter(i.r, i.b)
	})
	return limiter
}

// clientIP uses the peer address only. Forwarding headers are client
// controlled and would let anyone pick a fresh bucket per request.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (i *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			httpjson.WriteErrorJson(w,
				"Too many requests",
				http.StatusTooManyRequests,
				errCodeTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
