package middleware

import (
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// HTTPLogger 요청과 응답을 구조화된 로그로 기록합니다. SSO의 code, state 같은 민감한 쿼리 값은 가립니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			latency := time.Since(start)

			bytesIn := req.Header.Get(echo.HeaderContentLength)
			if bytesIn == "" {
				bytesIn = "0"
			}

			applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
				"method":        req.Method,
				"uri":           maskSensitiveQueryParams(req.RequestURI),
				"route":         c.Path(),
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"bytes_in":      bytesIn,
				"bytes_out":     strconv.FormatInt(res.Size, 10),
				"latency_human": latency.String(),
				"request_id":    res.Header().Get(echo.HeaderXRequestID),
			}).Info("HTTP 요청")

			return nil
		}
	}
}

// maskSensitiveQueryParams 민감한 쿼리 파라미터 값을 가립니다. 파싱에 실패하면 원본을 반환합니다.
//
//	/api/v1/auth/sso/complete?code=abcdef123456&state=x -> /api/v1/auth/sso/complete?code=abcd%2A%2A%2A&state=%2A%2A%2A
func maskSensitiveQueryParams(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	q := u.Query()
	masked := false
	for key := range q {
		if slices.Contains(constants.SensitiveQueryParams, key) {
			q.Set(key, applog.MaskToken(q.Get(key)))
			masked = true
		}
	}
	if !masked {
		return uri
	}

	u.RawQuery = q.Encode()
	return u.String()
}
