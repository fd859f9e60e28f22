package api

import (
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// swaggerIndexPath API 문서 첫 화면
const swaggerIndexPath = "/swagger/index.html"

// RegisterRoutes 버전과 무관한 전역 라우트를 등록합니다.
//
//   - GET|HEAD /health: 세션 저장소를 포함한 헬스체크 (로드밸런서용 HEAD 지원)
//   - GET /version: 빌드 정보
//   - GET /swagger/*: API 문서. / 는 문서 첫 화면으로 이동합니다.
func RegisterRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.HEAD("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, swaggerIndexPath)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(
		echoSwagger.URL("/swagger/doc.json"),
		echoSwagger.DeepLinking(true),
		echoSwagger.DocExpansion("none"),
	))
}
