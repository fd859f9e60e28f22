package fetcher

import (
	"net/http"
	"slices"
)

// StatusCodeFetcher 2xx(또는 지정된 상태 코드)가 아닌 응답을 HTTPStatusError로 변환합니다.
type StatusCodeFetcher struct {
	delegate        Fetcher
	allowedStatuses []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

func NewStatusCodeFetcher(delegate Fetcher, allowedStatuses ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:        delegate,
		allowedStatuses: allowedStatuses,
	}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	if f.isAllowed(resp.StatusCode) {
		return resp, nil
	}

	statusErr := newHTTPStatusError(req, resp)
	drainAndCloseBody(resp.Body)

	return nil, statusErr
}

func (f *StatusCodeFetcher) isAllowed(code int) bool {
	if len(f.allowedStatuses) > 0 {
		return slices.Contains(f.allowedStatuses, code)
	}
	return code >= 200 && code < 300
}

func (f *StatusCodeFetcher) Close() error {
	return f.delegate.Close()
}
