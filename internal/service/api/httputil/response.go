// Package httputil API 응답과 에러 응답을 만드는 함수를 제공합니다.
package httputil

import (
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// NewHTTPError 표준 ErrorResponse 본문을 가진 echo.HTTPError를 생성합니다.
func NewHTTPError(code int, kind, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, response.ErrorResponse{
		ResultCode: code,
		Kind:       kind,
		Message:    message,
	})
}

func NewBadRequestError(message string) error {
	return NewHTTPError(http.StatusBadRequest, "", message)
}

func NewNotFoundError(message string) error {
	return NewHTTPError(http.StatusNotFound, "", message)
}

func NewUnsupportedMediaTypeError(message string) error {
	return NewHTTPError(http.StatusUnsupportedMediaType, "", message)
}

func NewTooManyRequestsError(message string) error {
	return NewHTTPError(http.StatusTooManyRequests, "", message)
}

func NewInternalServerError(message string) error {
	return NewHTTPError(http.StatusInternalServerError, "", message)
}

// Success 본문이 없는 성공 응답(200)
func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse{ResultCode: 0})
}
