package dashboard

import (
	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

// 사용자에게 보여주는 안내 문구
const (
	MsgLoginRequired   = "نشست شما منقضی شده است. لطفا دوباره وارد شوید"
	MsgGenericFailure  = "خطا در دریافت اطلاعات. لطفا دوباره تلاش کنید"
	MsgInvalidLogin    = "نام کاربری یا رمز عبور اشتباه است"
	MsgMutationFailure = "عملیات انجام نشد. لطفا دوباره تلاش کنید"
)

// ErrLoginRequired 인증 토큰 없이 인증이 필요한 데이터를 요청했을 때 반환됩니다.
var ErrLoginRequired = apperrors.New(apperrors.Unauthorized, "로그인이 필요합니다")

// ErrNoProduct 상품 상세 화면이 열려 있지 않은 상태에서 상품 관련 작업을 요청했을 때 반환됩니다.
var ErrNoProduct = apperrors.New(apperrors.InvalidInput, "열려 있는 상품이 없습니다")

// ErrorKind 화면에 표시할 에러의 종류
type ErrorKind string

const (
	ErrorKindNone ErrorKind = ""

	// ErrorKindNeedsLogin 인증이 만료되어 다시 로그인해야 합니다.
	ErrorKindNeedsLogin ErrorKind = "needs_login"

	// ErrorKindFailure 그 외의 실패. 사용자가 다시 시도해야 합니다.
	ErrorKindFailure ErrorKind = "failure"
)

// describeError 에러를 화면에 표시할 종류와 문구로 변환합니다.
//
//   - 401: 다시 로그인하라는 안내
//   - 백엔드가 사유를 돌려준 실패: 그 사유를 그대로 표시
//   - 네트워크 오류, 응답 해석 실패 등: 일반 안내 문구
func describeError(err error, fallback string) (ErrorKind, string) {
	if err == nil {
		return ErrorKindNone, ""
	}
	if apperrors.Is(err, apperrors.Unauthorized) {
		return ErrorKindNeedsLogin, MsgLoginRequired
	}
	if msg, ok := backend.UserMessage(err); ok {
		return ErrorKindFailure, msg
	}
	return ErrorKindFailure, fallback
}

// UserError 화면에 그대로 보여줄 수 있는 에러입니다.
type UserError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.cause }

func newUserError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	kind, msg := describeError(err, fallback)
	return &UserError{Kind: kind, Message: msg, cause: err}
}
