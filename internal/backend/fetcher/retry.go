package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

const (
	minAllowedRetries = 0
	maxAllowedRetries = 10

	defaultMaxRetryDelay = 30 * time.Second
)

// RetryFetcher 일시적인 오류가 발생한 멱등 요청을 지수 백오프(Full Jitter)로 재시도합니다.
//
// 대시보드의 기본 설정은 재시도 없음(maxRetries=0)이며, 이 경우 요청을 그대로 위임합니다.
// POST, PUT, DELETE 같은 변경 요청은 설정과 관계없이 재시도하지 않습니다.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

func NewRetryFetcher(delegate Fetcher, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *RetryFetcher {
	minRetryDelay, maxRetryDelay = normalizeRetryDelays(minRetryDelay, maxRetryDelay)

	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    normalizeMaxRetries(maxRetries),
		minRetryDelay: minRetryDelay,
		maxRetryDelay: maxRetryDelay,
	}
}

func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	maxRetries := f.maxRetries
	if !isIdempotentMethod(req.Method) || (req.Body != nil && req.GetBody == nil) {
		maxRetries = 0
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			delay := f.backoff(i, lastErr)

			applog.WithComponentAndFields(component, applog.Fields{
				"url":         redactURL(req.URL),
				"retry":       i,
				"max_retries": maxRetries,
				"delay":       delay.String(),
				"error":       lastErr.Error(),
			}).Warn("HTTP 요청 재시도: 일시적인 오류가 발생하여 잠시 후 다시 시도함")

			if err := sleepContext(req.Context(), delay); err != nil {
				return nil, err
			}

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, apperrors.Wrap(err, apperrors.Internal, "재시도를 위한 요청 본문을 다시 생성하지 못했습니다")
				}
				req.Body = body
			}
		}

		resp, err := f.delegate.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !isRetriable(err) {
			return nil, err
		}
	}

	if maxRetries == 0 {
		return nil, lastErr
	}
	return nil, newErrMaxRetriesExceeded(lastErr)
}

// backoff 재시도 대기 시간을 계산합니다. 서버가 Retry-After를 보냈다면 최대 대기 시간 안에서 그 값을 따릅니다.
func (f *RetryFetcher) backoff(attempt int, lastErr error) time.Duration {
	var statusErr *HTTPStatusError
	if errors.As(lastErr, &statusErr) && statusErr.Header != nil {
		if d, ok := parseRetryAfter(statusErr.Header.Get("Retry-After")); ok {
			return min(d, f.maxRetryDelay)
		}
	}

	delay := min(f.minRetryDelay*time.Duration(1<<(attempt-1)), f.maxRetryDelay)
	delay = time.Duration(rand.Int64N(int64(delay) + 1))
	if delay < f.minRetryDelay {
		delay = f.minRetryDelay
	}
	return delay
}

func (f *RetryFetcher) Close() error {
	return f.delegate.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeMaxRetries(maxRetries int) int {
	if maxRetries < minAllowedRetries {
		return minAllowedRetries
	}
	if maxRetries > maxAllowedRetries {
		return maxAllowedRetries
	}
	return maxRetries
}

// normalizeRetryDelays 최소 대기 시간은 1초 이상, 최대 대기 시간은 최소 대기 시간 이상이 되도록 보정합니다.
func normalizeRetryDelays(minRetryDelay, maxRetryDelay time.Duration) (time.Duration, time.Duration) {
	if minRetryDelay < time.Second {
		minRetryDelay = time.Second
	}
	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}
	if maxRetryDelay < minRetryDelay {
		maxRetryDelay = minRetryDelay
	}
	return minRetryDelay, maxRetryDelay
}

func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func parseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// isRetriable 일시적인 오류인지 판단합니다.
// 인증 실패나 비즈니스 오류처럼 다시 보내도 결과가 같은 오류는 재시도하지 않습니다.
func isRetriable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var hostnameErr x509.HostnameError
	var unknownAuthorityErr x509.UnknownAuthorityError
	var certInvalidErr x509.CertificateInvalidError
	if errors.As(err, &hostnameErr) || errors.As(err, &unknownAuthorityErr) || errors.As(err, &certInvalidErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if apperrors.Is(err, apperrors.Unavailable) {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
				return false
			}
		}
		return true
	}

	return false
}
