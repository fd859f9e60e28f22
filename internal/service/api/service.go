// Package api 대시보드 REST API 서버를 제공합니다.
//
// @title 경쟁 상품 대시보드 API
// @version 1.0
// @description 바살람 판매자를 위한 경쟁 상품 대시보드의 화면 상태 API
// @BasePath /
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	_ "github.com/darkkaiser/competitor-dashboard/docs"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	"github.com/darkkaiser/competitor-dashboard/internal/dashboard"
	"github.com/darkkaiser/competitor-dashboard/internal/pkg/version"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/competitor-dashboard/internal/service/api/v1"
	v1handler "github.com/darkkaiser/competitor-dashboard/internal/service/api/v1/handler"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// ErrorReporter 서버가 예기치 않게 종료되었을 때 운영자에게 알립니다.
type ErrorReporter interface {
	NotifyDefault(ctx context.Context, message string) error
}

// Service API 서버의 생명주기를 관리합니다. Start로 시작하고 serviceStopCtx 취소로 종료합니다.
type Service struct {
	appConfig *config.AppConfig

	app      *dashboard.App
	deps     map[string]system.HealthChecker
	reporter ErrorReporter

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService reporter는 nil일 수 있습니다.
func NewService(appConfig *config.AppConfig, app *dashboard.App, deps map[string]system.HealthChecker, reporter ErrorReporter, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("api.NewService: AppConfig가 필요합니다")
	}
	if app == nil {
		panic("api.NewService: dashboard.App이 필요합니다")
	}

	return &Service{
		appConfig: appConfig,
		app:       app,
		deps:      deps,
		reporter:  reporter,
		buildInfo: buildInfo,
	}
}

// Start 서버를 고루틴에서 시작하고 즉시 반환합니다. 서버가 완전히 종료되면 serviceStopWG.Done()을 호출합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("API 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn("API 서비스가 이미 시작됨")
		return nil
	}
	s.running = true

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)
	go s.waitForShutdown(serviceStopCtx, serviceStopWG, e, httpServerDone)

	applog.WithComponent(constants.ComponentService).Info("API 서비스 시작됨")

	return nil
}

func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.deps, s.buildInfo)
	v1Handler := v1handler.NewHandler(s.app)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.appConfig.Debug,
		AllowOrigins:       s.appConfig.API.CORS.AllowOrigins,
		RequestTimeout:     s.appConfig.API.RequestTimeout,
		RateLimitPerSecond: s.appConfig.API.RateLimit.RequestsPerSecond,
		RateLimitBurst:     s.appConfig.API.RateLimit.Burst,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler)

	return e
}

func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
	}).Info("HTTP 서버 시작")

	s.handleServerError(e.Start(fmt.Sprintf(":%d", port)))
}

func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info("HTTP 서버 종료됨")
		return
	}

	const message = "HTTP 서버를 구동하는 중에 치명적인 오류가 발생하였습니다"
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err.Error(),
	}).Error(message)

	if s.reporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = s.reporter.NotifyDefault(ctx, fmt.Sprintf("%s\n\n%s", message, err))
	}
}

// waitForShutdown 종료 신호를 받거나 서버가 먼저 종료될 때까지 기다린 뒤 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup, e *echo.Echo, httpServerDone chan struct{}) {
	defer serviceStopWG.Done()

	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info("API 서비스 중지중...")
	case <-httpServerDone:
		applog.WithComponent(constants.ComponentService).Error("HTTP 서버가 예기치 않게 종료됨")
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err.Error(),
		}).Error("HTTP 서버 Graceful Shutdown 실패")
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("API 서비스 중지됨")
}
