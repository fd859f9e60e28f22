package errors

import "strconv"

// ErrorType 에러의 성격을 분류하는 타입입니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류
	Internal

	// System 디스크, 네트워크 등 인프라 수준의 오류
	System

	// Unauthorized 인증 실패 (토큰 없음, 토큰 만료, 백엔드의 401 응답)
	Unauthorized

	// Forbidden 인증은 되었으나 접근 권한이 없음
	Forbidden

	// InvalidInput 잘못된 입력값
	InvalidInput

	// Conflict 리소스 충돌 (이미 등록된 경쟁 상품 등)
	Conflict

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// ExecutionFailed 백엔드가 비즈니스 에러를 반환함
	ExecutionFailed

	// ParsingFailed 응답 본문 파싱 실패
	ParsingFailed

	// Timeout 요청 시간 초과
	Timeout

	// Unavailable 백엔드 일시적 사용 불가
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Unauthorized:    "Unauthorized",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
