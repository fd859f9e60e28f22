// Package fetcher 백엔드 호출에 사용하는 HTTP 요청 파이프라인을 제공합니다.
//
// 각 단계는 Fetcher를 감싸는 데코레이터로 구현되며 NewFromConfig가 다음 순서로 조립합니다.
//
//	HTTPFetcher → MaxBytesFetcher → StatusCodeFetcher → MimeTypeFetcher → RetryFetcher → BearerFetcher → UserAgentFetcher → LoggingFetcher
package fetcher

import (
	"net/http"
)

const component = "backend.fetcher"

// Fetcher HTTP 요청을 수행하는 파이프라인의 한 단계입니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)

	// Close 내부 Transport가 보유한 유휴 커넥션 등의 리소스를 정리합니다.
	Close() error
}

// TokenSource 요청에 첨부할 Bearer 토큰을 제공합니다. 토큰이 없으면 빈 문자열을 반환합니다.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc 일반 함수를 TokenSource로 사용할 수 있게 합니다.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }
