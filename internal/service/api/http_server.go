package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/competitor-dashboard/internal/service/api/middleware"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정
type HTTPServerConfig struct {
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 요청 하나의 최대 처리 시간. 0이면 constants.DefaultRequestTimeout
	RequestTimeout time.Duration

	// IP별 초당 요청 수와 버스트
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewHTTPServer 미들웨어가 설정된 Echo 인스턴스를 생성합니다. 라우트는 호출자가 등록합니다.
//
// 미들웨어 적용 순서:
//
//  1. PanicRecovery: 다른 미들웨어의 panic까지 복구하도록 가장 먼저
//  2. RequestID: 로그에 request_id를 남기도록 로깅보다 먼저
//  3. Server 헤더 제거
//  4. HTTPLogger: 429, 503 응답도 기록하도록 RateLimiting, Timeout보다 먼저
//  5. RateLimiting
//  6. BodyLimit
//  7. Timeout
//  8. CORS
//  9. Secure
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그도 애플리케이션 로거로 남깁니다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(appmiddleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst > 0 {
		e.Use(appmiddleware.RateLimiting(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.Secure())

	return e
}
