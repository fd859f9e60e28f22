package fetcher

import (
	"net/http"
	"time"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
)

// HTTPFetcher http.Client로 실제 요청을 전송하는 파이프라인의 가장 안쪽 단계입니다.
type HTTPFetcher struct {
	client *http.Client

	transport       http.RoundTripper
	maxIdleConns    int
	idleConnTimeout time.Duration
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Option HTTPFetcher의 설정을 변경합니다.
type Option func(*HTTPFetcher)

func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		if timeout > 0 {
			h.client.Timeout = timeout
		}
	}
}

func WithMaxIdleConns(max int) Option {
	return func(h *HTTPFetcher) {
		h.maxIdleConns = max
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.idleConnTimeout = timeout
	}
}

// WithTransport 외부에서 준비한 RoundTripper를 그대로 사용합니다. 테스트에서 주로 사용합니다.
func WithTransport(transport http.RoundTripper) Option {
	return func(h *HTTPFetcher) {
		h.transport = transport
	}
}

func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	h := &HTTPFetcher{
		client:          &http.Client{Timeout: defaultTimeout},
		maxIdleConns:    defaultMaxIdleConns,
		idleConnTimeout: defaultIdleConnTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.transport != nil {
		h.client.Transport = h.transport
	} else {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.MaxIdleConns = h.maxIdleConns
		tr.MaxIdleConnsPerHost = h.maxIdleConns
		tr.IdleConnTimeout = h.idleConnTimeout
		h.client.Transport = tr
	}

	return h
}

func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, newErrRequestFailed(err, redactURL(req.URL))
	}
	return resp, nil
}

func (h *HTTPFetcher) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
