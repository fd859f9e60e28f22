package fetcher

import (
	"net/http"
)

// UserAgentFetcher User-Agent 헤더가 없는 요청에 기본값을 설정합니다.
type UserAgentFetcher struct {
	delegate  Fetcher
	userAgent string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

func NewUserAgentFetcher(delegate Fetcher, userAgent string) Fetcher {
	if userAgent == "" {
		return delegate
	}

	return &UserAgentFetcher{
		delegate:  delegate,
		userAgent: userAgent,
	}
}

func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", f.userAgent)
	}

	return f.delegate.Do(req)
}

func (f *UserAgentFetcher) Close() error {
	return f.delegate.Close()
}
