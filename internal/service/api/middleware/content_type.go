package middleware

import (
	"mime"
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

// ValidateContentType 본문이 있는 요청의 Content-Type이 expected인지 확인합니다. 다르면 415를 응답합니다.
func ValidateContentType(expected string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodGet || req.Method == http.MethodHead || req.ContentLength == 0 {
				return next(c)
			}

			mediaType, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
			if err != nil || mediaType != expected {
				return httputil.NewUnsupportedMediaTypeError(constants.ErrMsgUnsupportedMedia)
			}
			return next(c)
		}
	}
}
