// Package middleware API 서버의 Echo 미들웨어를 제공합니다.
//
// 권장 적용 순서는 PanicRecovery, RequestID, HTTPLogger, RateLimiting 순입니다.
// HTTPLogger가 RateLimiting보다 앞에 있어야 429 응답도 기록됩니다.
package middleware
