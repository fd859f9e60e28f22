// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// 핸들러는 요청을 검증한 뒤 dashboard.App의 화면 상태 작업을 호출하고, 그 결과 상태를 그대로 JSON으로 응답합니다.
package handler

import (
	"errors"
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/dashboard"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// Handler v1 API 핸들러
type Handler struct {
	app *dashboard.App
}

func NewHandler(app *dashboard.App) *Handler {
	if app == nil {
		panic("v1 handler: dashboard.App이 필요합니다")
	}
	return &Handler{app: app}
}

func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":   c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}

// respond 작업이 실패하면 에러 응답을, 성공하면 갱신된 화면 상태를 응답합니다. 영역별 실패 내용은 각 화면 상태의 state에도 남아 있습니다.
func (h *Handler) respond(c echo.Context, view any, err error) error {
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// toHTTPError 대시보드 에러를 HTTP 에러로 변환합니다. needs_login은 항상 401입니다.
func toHTTPError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ue *dashboard.UserError
	if errors.As(err, &ue) {
		return httputil.NewHTTPError(statusOf(ue), string(ue.Kind), ue.Message)
	}

	switch {
	case apperrors.Is(err, apperrors.Unauthorized):
		return httputil.NewHTTPError(http.StatusUnauthorized, string(dashboard.ErrorKindNeedsLogin), dashboard.MsgLoginRequired)
	case apperrors.Is(err, apperrors.InvalidInput):
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}
	return err
}

func statusOf(ue *dashboard.UserError) int {
	if ue.Kind == dashboard.ErrorKindNeedsLogin {
		return http.StatusUnauthorized
	}

	switch {
	case ue.Unwrap() == nil, apperrors.Is(ue, apperrors.Unauthorized):
		// 로그인 정보 오류 등 백엔드에 요청하기 전에 거절된 경우
		return http.StatusUnprocessableEntity
	case apperrors.Is(ue, apperrors.InvalidInput):
		return http.StatusBadRequest
	case apperrors.Is(ue, apperrors.NotFound):
		return http.StatusNotFound
	case apperrors.Is(ue, apperrors.Forbidden):
		return http.StatusForbidden
	case apperrors.Is(ue, apperrors.Conflict):
		return http.StatusConflict
	case apperrors.Is(ue, apperrors.ExecutionFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
