package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// telegramBotTokenRegex 예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator 설정 검증용 Validator를 생성합니다. 에러 메시지에는 구조체 필드명 대신 JSON 키를 사용합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"cors_origin": func(fl validator.FieldLevel) bool {
			return validation.ValidateCORSOrigin(fl.Field().String()) == nil
		},
		"base_url": func(fl validator.FieldLevel) bool {
			return validation.ValidateBaseURL(fl.Field().String()) == nil
		},
		"telegram_bot_token": func(fl validator.FieldLevel) bool {
			return telegramBotTokenRegex.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

// checkStruct 구조체를 검증하고 첫 번째 위반 사항을 사용자 친화적인 메시지의 InvalidInput 에러로 변환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "%s 유효성 검증에 실패했습니다", contextName)
	}

	fe := validationErrors[0]

	switch fe.StructField() {
	case "ListenPort":
		return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
	case "MaxRetries":
		return apperrors.Newf(apperrors.InvalidInput, "HTTP 최대 재시도 횟수(max_retries)는 0에서 10 사이여야 합니다: '%v'", fe.Value())
	case "BaseURL":
		return apperrors.Newf(apperrors.InvalidInput, "백엔드 기본 URL(base_url) 형식이 올바르지 않습니다: '%v' (예: https://api.example.com)", fe.Value())
	case "Store":
		return apperrors.Newf(apperrors.InvalidInput, "세션 저장소(store)는 'file' 또는 'redis'만 사용할 수 있습니다: '%v'", fe.Value())
	}

	switch fe.Tag() {
	case "unique":
		return apperrors.Newf(apperrors.InvalidInput, "%s 내에 중복된 ID가 존재합니다 (설정 값을 확인해주세요)", contextName)
	case "cors_origin":
		return apperrors.Newf(apperrors.InvalidInput, "CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fe.Value())
	case "telegram_bot_token":
		return apperrors.New(apperrors.InvalidInput, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")
	}

	return apperrors.Newf(apperrors.InvalidInput, "%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, fe.Field(), fe.Tag())
}
