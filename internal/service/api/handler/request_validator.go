// Package handler 버전과 무관하게 공통으로 사용하는 요청 처리 함수를 제공합니다.
package handler

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator 에러 메시지에 label 태그를 필드 이름으로 사용하는 Validator를 반환합니다.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
	})
	return validate
}

// BindAndValidate 요청을 바인딩하고 검증합니다. 실패하면 화면에 표시할 수 있는 400 에러를 반환합니다.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgInvalidBody)
	}
	if err := getValidator().Struct(req); err != nil {
		return httputil.NewBadRequestError(FormatValidationError(err))
	}
	return nil
}

// FormatValidationError 첫 번째 검증 실패를 사용자용 문구로 바꿉니다.
func FormatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return constants.ErrMsgBadRequest
	}

	fe := validationErrors[0]
	name := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s الزامی است", name)
	case "min":
		return fmt.Sprintf("%s باید حداقل %s باشد", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s باید حداکثر %s باشد", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s باید یکی از مقادیر (%s) باشد", name, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s باید عدد باشد", name)
	default:
		return fmt.Sprintf("%s نامعتبر است", name)
	}
}
