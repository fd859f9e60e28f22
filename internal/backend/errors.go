package backend

import (
	"errors"

	"github.com/darkkaiser/competitor-dashboard/internal/backend/fetcher"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

// BusinessError 백엔드가 거절 사유를 함께 돌려준 실패입니다. Message는 사용자에게 그대로 보여줍니다.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

func newBusinessError(errType apperrors.ErrorType, message string) error {
	return apperrors.Wrap(&BusinessError{Message: message}, errType, message)
}

// UserMessage 에러에 사용자에게 그대로 보여줄 백엔드 메시지가 있으면 반환합니다.
// 네트워크 오류나 응답 해석 실패처럼 백엔드가 사유를 알려주지 않은 경우에는 false를 반환합니다.
func UserMessage(err error) (string, bool) {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) && businessErr.Message != "" {
		return businessErr.Message, true
	}

	var statusErr *fetcher.HTTPStatusError
	if errors.As(err, &statusErr) {
		return fetcher.BodyMessage([]byte(statusErr.BodySnippet))
	}

	return "", false
}
