package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// stackBufferSize 패닉 스택 트레이스 버퍼 크기 (4KB)
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러의 패닉을 복구하여 500 응답으로 바꾸고 스택 트레이스를 기록합니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				recovered, ok := r.(error)
				if !ok {
					recovered = apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
				}

				stack := make([]byte, stackBufferSize)
				length := runtime.Stack(stack, false)

				applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
					"error":      recovered.Error(),
					"stack":      string(stack[:length]),
					"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				}).Error("핸들러 패닉 복구")

				err = recovered
			}()

			return next(c)
		}
	}
}
