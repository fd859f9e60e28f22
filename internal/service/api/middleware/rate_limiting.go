package middleware

import (
	"sync"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// limiterIdleTTL 이 시간 동안 요청이 없던 IP의 Limiter는 정리됩니다.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter IP 주소별 토큰 버킷
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int

	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// sweepLocked 오래 사용되지 않은 Limiter를 지웁니다. limiterIdleTTL마다 한 번만 검사합니다.
func (l *ipRateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now

	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) >= limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
}

// RateLimiting IP별로 초당 요청 수를 제한합니다. 초과하면 Retry-After 헤더와 함께 429를 응답합니다.
//
// requestsPerSecond 또는 burst가 0 이하이면 패닉이 발생합니다.
func RateLimiting(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("RateLimiting: requestsPerSecond는 양수여야 합니다")
	}
	if burst <= 0 {
		panic("RateLimiting: burst는 양수여야 합니다")
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if limiter.allow(ip) {
				return next(c)
			}

			applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
				"remote_ip": ip,
				"path":      c.Request().URL.Path,
				"method":    c.Request().Method,
			}).Warn("요청 속도 제한 초과")

			c.Response().Header().Set("Retry-After", "1")
			return httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)
		}
	}
}
