package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// LoggingFetcher 요청 메서드, 마스킹된 URL, 상태 코드, 소요 시간을 로그로 남깁니다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{
		delegate: delegate,
	}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      redactURL(req.URL),
		"duration": time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err.Error()

		entry := applog.WithComponentAndFields(component, fields).WithContext(req.Context())
		if statusCode, ok := statusCodeOf(err); ok {
			entry = entry.WithField("status_code", statusCode)
		}
		entry.Error("HTTP 요청 실패: 요청 처리 중 에러 발생")

		return resp, err
	}

	fields["status_code"] = resp.StatusCode

	applog.WithComponentAndFields(component, fields).
		WithContext(req.Context()).
		Debug("HTTP 요청 성공: 정상 처리 완료")

	return resp, nil
}

func (f *LoggingFetcher) Close() error {
	return f.delegate.Close()
}
