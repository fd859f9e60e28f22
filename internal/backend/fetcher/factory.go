package fetcher

import (
	"time"
)

// Config 파이프라인 조립에 필요한 설정입니다.
type Config struct {
	Timeout   time.Duration
	UserAgent string

	// MaxRetries 멱등 요청의 최대 재시도 횟수. 0이면 재시도하지 않습니다.
	MaxRetries    int
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// MaxBytes 응답 본문의 최대 크기. NoLimit(-1)이면 제한하지 않습니다.
	MaxBytes int64

	AllowedMimeTypes []string

	// TokenSource nil이면 Authorization 헤더를 첨부하지 않습니다.
	TokenSource TokenSource

	DisableLogging bool
}

// NewFromConfig 설정에 따라 데코레이터를 조립한 Fetcher를 반환합니다.
func NewFromConfig(cfg Config, opts ...Option) Fetcher {
	mergedOpts := []Option{WithTimeout(cfg.Timeout)}
	mergedOpts = append(mergedOpts, opts...)

	var f Fetcher = NewHTTPFetcher(mergedOpts...)

	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewStatusCodeFetcher(f)
	f = NewMimeTypeFetcher(f, cfg.AllowedMimeTypes, true)
	f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)
	f = NewBearerFetcher(f, cfg.TokenSource)
	f = NewUserAgentFetcher(f, cfg.UserAgent)

	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}
