package fetcher

import (
	"net/http"
)

// BearerFetcher 요청에 Authorization: Bearer 헤더를 첨부합니다.
//
// 요청에 이미 Authorization 헤더가 있으면(예: SSO 임시 토큰) 그대로 둡니다.
// 인증 상태가 네트워크 호출에 영향을 주는 유일한 지점입니다.
type BearerFetcher struct {
	delegate Fetcher
	source   TokenSource
}

var _ Fetcher = (*BearerFetcher)(nil)

func NewBearerFetcher(delegate Fetcher, source TokenSource) Fetcher {
	if source == nil {
		return delegate
	}

	return &BearerFetcher{
		delegate: delegate,
		source:   source,
	}
}

func (f *BearerFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		if token := f.source.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return f.delegate.Do(req)
}

func (f *BearerFetcher) Close() error {
	return f.delegate.Close()
}
