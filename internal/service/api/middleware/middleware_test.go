package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	return e
}

func serve(e *echo.Echo, method, target string, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPanicRecovery(t *testing.T) {
	e := newTestEcho()
	e.Use(PanicRecovery())
	e.GET("/panic", func(echo.Context) error { panic("boom") })
	e.GET("/panic-error", func(echo.Context) error { panic(errors.New("boom")) })

	assert.Equal(t, http.StatusInternalServerError, serve(e, http.MethodGet, "/panic", "", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(e, http.MethodGet, "/panic-error", "", nil).Code)
}

func TestRequestID(t *testing.T) {
	e := newTestEcho()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, http.MethodGet, "/", "", nil)
	_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err)

	rec = serve(e, http.MethodGet, "/", "", map[string]string{echo.HeaderXRequestID: "client-id"})
	assert.Equal(t, "client-id", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRateLimiting(t *testing.T) {
	e := newTestEcho()
	e.Use(RateLimiting(1, 2))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "", nil).Code)

	rec := serve(e, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// 다른 IP는 영향을 받지 않는다.
	rec = serve(e, http.MethodGet, "/", "", map[string]string{echo.HeaderXRealIP: "10.0.0.2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiting_InvalidArguments(t *testing.T) {
	assert.Panics(t, func() { RateLimiting(0, 1) })
	assert.Panics(t, func() { RateLimiting(1, 0) })
}

func TestIPRateLimiter_SweepsIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(limiterIdleTTL + time.Second)
	l.allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.limiters, "a")
	assert.Contains(t, l.limiters, "b")
}

func TestValidateContentType(t *testing.T) {
	e := newTestEcho()
	e.Use(ValidateContentType(echo.MIMEApplicationJSON))
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/", `{}`, map[string]string{echo.HeaderContentType: "application/json; charset=utf-8"}).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(e, http.MethodPost, "/", `a=b`, map[string]string{echo.HeaderContentType: "application/x-www-form-urlencoded"}).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "", nil).Code)
}

func TestHTTPLogger(t *testing.T) {
	e := newTestEcho()
	e.Use(HTTPLogger())
	e.GET("/fail", func(echo.Context) error { return httputil.NewBadRequestError("bad") })

	rec := serve(e, http.MethodGet, "/fail", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaskSensitiveQueryParams(t *testing.T) {
	masked := maskSensitiveQueryParams("/api/v1/auth/sso/complete?code=abcdef123456789&page=2")
	assert.NotContains(t, masked, "abcdef123456789")
	assert.Contains(t, masked, "page=2")

	assert.Equal(t, "/api/v1/lists?page=2", maskSensitiveQueryParams("/api/v1/lists?page=2"))
	assert.Equal(t, "%zz", maskSensitiveQueryParams("%zz"))
}

func TestLoggerAdapter(t *testing.T) {
	l := Logger{Logger: logrus.New()}

	l.SetLevel(log.WARN)
	assert.Equal(t, log.WARN, l.Level())
	l.SetLevel(log.DEBUG)
	assert.Equal(t, log.DEBUG, l.Level())

	require.NotNil(t, l.Output())
	assert.Empty(t, l.Prefix())

	var _ echo.Logger = l
}
