package handler

import (
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/model/response"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// LoginHandler godoc
// @Summary 로그인
// @Description 사용자 이름과 비밀번호로 로그인하고 이동할 화면을 반환합니다. 로그인 전에 보던 화면이 있으면 그 화면으로 돌아갑니다.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body request.LoginRequest true "로그인 정보"
// @Success 200 {object} response.RouteResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "잘못된 로그인 정보"
// @Router /api/v1/auth/login [post]
func (h *Handler) LoginHandler(c echo.Context) error {
	req := new(request.LoginRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	to, err := h.app.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, response.RouteResponse{Route: to.Path()})
}

// SSOStartHandler godoc
// @Summary SSO 로그인 시작
// @Tags Auth
// @Produce json
// @Success 200 {object} response.SSOStartResponse
// @Router /api/v1/auth/sso/start [get]
func (h *Handler) SSOStartHandler(c echo.Context) error {
	uri, err := h.app.StartSSO(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, response.SSOStartResponse{RedirectURI: uri})
}

// SSOCompleteHandler godoc
// @Summary SSO 로그인 완료
// @Description 외부 인증에서 돌아온 code, state로 토큰을 교환합니다. 비밀번호가 없는 계정이면 /set-password로 이동합니다.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body request.SSOCompleteRequest true "code, state"
// @Success 200 {object} response.RouteResponse
// @Router /api/v1/auth/sso/complete [post]
func (h *Handler) SSOCompleteHandler(c echo.Context) error {
	req := new(request.SSOCompleteRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	to, err := h.app.CompleteSSO(c.Request().Context(), req.Code, req.State)
	if err != nil {
		h.log(c).WithField("error", err.Error()).Warn("SSO 로그인 완료 실패")
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, response.RouteResponse{Route: to.Path()})
}

// SetPasswordHandler godoc
// @Summary SSO 계정 비밀번호 설정
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body request.SetPasswordRequest true "새 비밀번호"
// @Success 200 {object} response.RouteResponse
// @Failure 401 {object} response.ErrorResponse "SSO 임시 정보 없음 또는 만료"
// @Router /api/v1/auth/password [post]
func (h *Handler) SetPasswordHandler(c echo.Context) error {
	req := new(request.SetPasswordRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	to, err := h.app.SetPassword(c.Request().Context(), req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, response.RouteResponse{Route: to.Path()})
}

// LogoutHandler godoc
// @Summary 로그아웃
// @Tags Auth
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/auth/logout [post]
func (h *Handler) LogoutHandler(c echo.Context) error {
	if err := h.app.Logout(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}
	return httputil.Success(c)
}

// SessionHandler godoc
// @Summary 현재 로그인 상태와 화면
// @Tags Auth
// @Produce json
// @Success 200 {object} response.SessionResponse
// @Router /api/v1/session [get]
func (h *Handler) SessionHandler(c echo.Context) error {
	nav := h.app.Navigator()

	resp := response.SessionResponse{
		Authenticated: h.app.Session().IsAuthenticated(),
		Route:         nav.Current().Path(),
		LastSection:   string(nav.LastSection()),
	}

	h.log(c).WithFields(applog.Fields{
		"authenticated": resp.Authenticated,
		"route":         resp.Route,
	}).Debug("세션 상태 조회")

	return c.JSON(http.StatusOK, resp)
}

// BackHandler godoc
// @Summary 마지막 목록 화면으로 돌아가기
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.RouteResponse
// @Router /api/v1/navigation/back [post]
func (h *Handler) BackHandler(c echo.Context) error {
	to := h.app.Back()
	return c.JSON(http.StatusOK, response.RouteResponse{Route: to.Path()})
}
