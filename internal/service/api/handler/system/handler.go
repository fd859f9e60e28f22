// Package system 인증 없이 호출할 수 있는 헬스체크와 버전 정보 엔드포인트를 제공합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/pkg/version"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/model/response"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// healthCheckTimeout 의존성 하나를 확인하는 최대 시간
const healthCheckTimeout = 3 * time.Second

// HealthChecker 헬스체크 대상 의존성
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler 시스템 엔드포인트 핸들러
type Handler struct {
	deps      map[string]HealthChecker
	buildInfo version.Info
	startedAt time.Time
}

func NewHandler(deps map[string]HealthChecker, buildInfo version.Info) *Handler {
	return &Handler{
		deps:      deps,
		buildInfo: buildInfo,
		startedAt: time.Now(),
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 세션 저장소의 상태를 확인합니다. 의존성 중 하나라도 실패하면 503을 응답합니다.
// @Tags System
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Failure 503 {object} response.HealthResponse
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	resp := response.HealthResponse{
		Status:       constants.HealthStatusHealthy,
		Uptime:       int64(time.Since(h.startedAt).Seconds()),
		Dependencies: make(map[string]response.DependencyStatus, len(h.deps)),
	}

	for name, dep := range h.deps {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		err := dep.Health(ctx)
		cancel()

		if err != nil {
			resp.Status = constants.HealthStatusUnhealthy
			resp.Dependencies[name] = response.DependencyStatus{Status: constants.HealthStatusUnhealthy, Message: err.Error()}

			applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
				"dependency": name,
				"error":      err.Error(),
			}).Warn("헬스체크 실패")
			continue
		}
		resp.Dependencies[name] = response.DependencyStatus{Status: constants.HealthStatusHealthy}
	}

	code := http.StatusOK
	if resp.Status != constants.HealthStatusHealthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Tags System
// @Produce json
// @Success 200 {object} version.Info
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
