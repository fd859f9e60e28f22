// Package v1 대시보드 API의 v1 라우트를 정의합니다.
//
// 화면 하나가 하나의 상태 컨테이너에 대응합니다. 모든 응답은 요청 처리 후의 화면 상태(또는 에러)입니다.
//
//   - /api/v1/auth/*            로그인, SSO, 비밀번호 설정, 로그아웃
//   - /api/v1/lists/:kind/*     내 상품, 싼 상품, 비싼 상품 목록
//   - /api/v1/product/*         열려 있는 상품 상세 화면의 각 영역
package v1

import (
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/middleware"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	g := e.Group("/api/v1", middleware.ValidateContentType(echo.MIMEApplicationJSON))

	auth := g.Group("/auth")
	auth.POST("/login", h.LoginHandler)
	auth.GET("/sso/start", h.SSOStartHandler)
	auth.POST("/sso/complete", h.SSOCompleteHandler)
	// 외부 인증 화면에서 바로 돌아오는 경우
	auth.GET("/sso/complete", h.SSOCompleteHandler)
	auth.POST("/password", h.SetPasswordHandler)
	auth.POST("/logout", h.LogoutHandler)

	g.GET("/session", h.SessionHandler)
	g.POST("/navigation/back", h.BackHandler)

	lists := g.Group("/lists/:kind")
	lists.GET("", h.ListInitHandler)
	lists.POST("/load", h.ListLoadHandler)
	lists.POST("/more", h.ListMoreHandler)
	lists.PUT("/scroll", h.ListScrollHandler)

	g.GET("/products/:id", h.ProductOpenHandler)
	g.PUT("/products/:id/expensive", h.ExpensiveHandler)
	g.DELETE("/products/:id/expensive", h.ExpensiveHandler)

	product := g.Group("/product")
	product.GET("", h.ProductViewHandler)
	product.POST("/detail", h.DetailReloadHandler)
	product.POST("/overview", h.OverviewReloadHandler)
	product.POST("/competitors", h.AddCompetitorHandler)
	product.DELETE("/competitors/:opID", h.DeleteCompetitorHandler)
	product.POST("/competitors/refresh", h.CompetitorsRefreshHandler)
	product.POST("/competitors/more", h.CompetitorsMoreHandler)
	product.POST("/similar", h.SimilarSearchHandler)
	product.POST("/similar/more", h.SimilarMoreHandler)
}
