package httputil

import (
	"errors"
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/model/response"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// ErrorHandler Echo의 전역 에러 핸들러입니다. 모든 에러를 ErrorResponse JSON으로 응답합니다.
//
// echo.HTTPError가 아닌 에러는 내부 오류(500)로 처리하며 에러 내용은 로그에만 남깁니다.
func ErrorHandler(err error, c echo.Context) {
	resp := response.ErrorResponse{
		ResultCode: http.StatusInternalServerError,
		Message:    constants.ErrMsgInternalServer,
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp.ResultCode = he.Code
		switch m := he.Message.(type) {
		case response.ErrorResponse:
			resp.Kind = m.Kind
			resp.Message = m.Message
		case string:
			resp.Message = m
		}
	}

	if resp.ResultCode == http.StatusNotFound && resp.Kind == "" && !isErrorResponse(he) {
		resp.Message = constants.ErrMsgNotFound
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": resp.ResultCode,
		"error":       err.Error(),
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if resp.ResultCode >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error("HTTP 5xx 서버 오류")
	} else {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn("HTTP 4xx 요청 오류")
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.ResultCode)
		return
	}
	_ = c.JSON(resp.ResultCode, resp)
}

// isErrorResponse 핸들러가 직접 만든 404(예: 상품 없음)인지 확인합니다. 라우팅 실패 404만 기본 문구로 바꿉니다.
func isErrorResponse(he *echo.HTTPError) bool {
	if he == nil {
		return false
	}
	_, ok := he.Message.(response.ErrorResponse)
	return ok
}
