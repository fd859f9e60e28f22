// Package log logrus 기반의 애플리케이션 로깅 기능을 제공합니다.
//
// 모든 로그는 component 필드로 출처를 구분합니다.
//
//	applog.WithComponent("backend.client").Info("요청 완료")
//	applog.WithComponentAndFields("dashboard.mutation", applog.Fields{"op_product": 7}).Warn("경쟁 상품 추가 실패")
package log

import (
	"github.com/sirupsen/logrus"
)

// StandardLogger 전역 logrus Logger를 반환합니다. 외부 라이브러리 로거 어댑터에서 사용합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// SetDebugMode debug가 true이면 Trace 레벨까지, 아니면 Info 레벨까지 기록합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}

// WithComponent component 필드가 설정된 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드가 설정된 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component
	return logrus.WithFields(merged)
}

// MaskToken 인증 토큰처럼 민감한 문자열을 로그에 남길 수 있도록 가립니다.
func MaskToken(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 3:
		return "***"
	case len(s) <= 12:
		return s[:4] + "***"
	default:
		return s[:4] + "***" + s[len(s)-4:]
	}
}
