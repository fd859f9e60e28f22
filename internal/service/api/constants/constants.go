// Package constants API 서버 전반에서 사용하는 상수를 정의합니다.
package constants

import "time"

// 로그의 component 필드 값
const (
	ComponentService      = "api.service"
	ComponentHandler      = "api.handler"
	ComponentMiddleware   = "api.middleware"
	ComponentErrorHandler = "api.error_handler"
)

// HTTP 서버 기본값
const (
	DefaultReadTimeout       = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second

	// DefaultWriteTimeout 백엔드 요청 타임아웃보다 길어야 합니다.
	DefaultWriteTimeout = 90 * time.Second
	DefaultIdleTimeout  = 120 * time.Second

	DefaultRequestTimeout = 60 * time.Second

	// DefaultMaxBodySize 요청 본문 최대 크기
	DefaultMaxBodySize = "64K"

	ShutdownTimeout = 5 * time.Second
)

// 클라이언트에 반환하는 에러 메시지
const (
	ErrMsgBadRequest       = "درخواست نامعتبر است"
	ErrMsgNotFound         = "صفحه مورد نظر یافت نشد"
	ErrMsgTooManyRequests  = "تعداد درخواست‌ها بیش از حد مجاز است. لطفا کمی بعد تلاش کنید"
	ErrMsgInternalServer   = "خطای داخلی سرور"
	ErrMsgInvalidBody      = "قالب درخواست نامعتبر است"
	ErrMsgUnsupportedMedia = "نوع محتوای درخواست پشتیبانی نمی‌شود"
)

// 로그에 값을 가려서 남길 쿼리 파라미터
var SensitiveQueryParams = []string{"code", "state", "token", "password"}

// 헬스체크 상태
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DependencySessionStore = "session_store"
	DependencyBackend      = "backend"
)
