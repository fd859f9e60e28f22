package fetcher

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// HTTPStatusError 허용되지 않은 상태 코드의 응답을 표현합니다.
//
// Cause에는 상태 코드로 분류된 apperrors.AppError가 저장됩니다. 응답 본문의 message 또는 error 필드가
// 있으면 그 값이 Cause의 메시지로 그대로 사용되므로 apperrors.MessageOf로 사용자에게 보여줄 문구를 얻을 수 있습니다.
type HTTPStatusError struct {
	StatusCode int
	Status     string

	// URL 민감한 쿼리 파라미터가 마스킹된 요청 URL
	URL string

	// Header 민감한 헤더가 마스킹된 응답 헤더
	Header http.Header

	// BodySnippet 응답 본문의 앞부분(최대 4KB)
	BodySnippet string

	Cause error
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// newHTTPStatusError 응답으로부터 HTTPStatusError를 생성합니다. 응답 Body는 호출자가 닫아야 합니다.
func newHTTPStatusError(req *http.Request, resp *http.Response) *HTTPStatusError {
	snippet := readBodySnippet(resp.Body)

	var url string
	if req != nil {
		url = redactURL(req.URL)
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         url,
		Header:      redactHeaders(resp.Header),
		BodySnippet: string(snippet),
		Cause:       apperrors.New(classifyStatus(resp.StatusCode), businessMessage(resp.StatusCode, snippet)),
	}
}

// classifyStatus HTTP 상태 코드를 도메인 에러 타입으로 변환합니다.
func classifyStatus(code int) apperrors.ErrorType {
	switch {
	case code == http.StatusUnauthorized:
		return apperrors.Unauthorized
	case code == http.StatusForbidden:
		return apperrors.Forbidden
	case code == http.StatusNotFound:
		return apperrors.NotFound
	case code == http.StatusConflict:
		return apperrors.Conflict
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput
	case code == http.StatusTooManyRequests, code >= 500:
		return apperrors.Unavailable
	default:
		return apperrors.ExecutionFailed
	}
}

// businessMessage 응답 본문의 message 또는 error 필드를 추출합니다. 없으면 상태 코드 기반의 기본 문구를 반환합니다.
func businessMessage(code int, body []byte) string {
	if msg, ok := BodyMessage(body); ok {
		return msg
	}
	return fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %d %s", code, http.StatusText(code))
}

// BodyMessage JSON 응답 본문에서 사용자에게 보여줄 message 또는 error 필드를 찾습니다.
func BodyMessage(body []byte) (string, bool) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return "", false
	}

	for _, path := range []string{"message", "error", "error.message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String {
			if msg := strings.TrimSpace(r.String()); msg != "" {
				return msg, true
			}
		}
	}
	return "", false
}
