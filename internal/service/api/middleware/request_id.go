package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestID 요청마다 UUID v4 요청 ID를 부여하여 X-Request-ID 응답 헤더에 설정합니다.
// 클라이언트가 X-Request-ID를 보내면 그 값을 그대로 사용합니다.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}
