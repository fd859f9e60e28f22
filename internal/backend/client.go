// Package backend 대시보드 백엔드(n8n 웹훅 프록시) API 클라이언트를 제공합니다.
//
// 모든 요청은 fetcher 파이프라인을 거치며 저장된 인증 토큰이 Bearer 헤더로 첨부됩니다.
// HTTP 401 응답은 apperrors.Unauthorized로 변환되고, 본문의 message/error 필드는 에러 메시지로 그대로 전달됩니다.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/darkkaiser/competitor-dashboard/internal/backend/fetcher"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

const component = "backend.client"

// Client 백엔드 API 클라이언트
type Client struct {
	baseURL *url.URL
	fetcher fetcher.Fetcher
}

// New 주어진 Fetcher로 baseURL의 백엔드를 호출하는 Client를 생성합니다.
func New(f fetcher.Fetcher, baseURL string) (*Client, error) {
	if f == nil {
		return nil, apperrors.New(apperrors.Internal, "Fetcher가 지정되지 않았습니다")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.Newf(apperrors.InvalidInput, "백엔드 주소가 올바르지 않습니다: '%s'", baseURL)
	}

	return &Client{baseURL: u, fetcher: f}, nil
}

// NewFromConfig 설정으로 fetcher 파이프라인을 조립하여 Client를 생성합니다.
func NewFromConfig(backendCfg config.BackendConfig, retryCfg config.HTTPRetryConfig, tokens fetcher.TokenSource) (*Client, error) {
	f := fetcher.NewFromConfig(fetcher.Config{
		Timeout:          backendCfg.Timeout,
		UserAgent:        backendCfg.UserAgent,
		MaxRetries:       retryCfg.MaxRetries,
		MinRetryDelay:    retryCfg.RetryDelay,
		MaxBytes:         backendCfg.MaxResponseBytes,
		AllowedMimeTypes: []string{"application/json", "text/json"},
		TokenSource:      tokens,
	})

	return New(f, backendCfg.BaseURL)
}

// Close 내부 HTTP 커넥션을 정리합니다.
func (c *Client) Close() error {
	return c.fetcher.Close()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, header http.Header, body any) (gjson.Result, error) {
	data, err := fetcher.FetchRaw(ctx, c.fetcher, method, c.endpoint(path, query), header, body)
	if err != nil {
		return gjson.Result{}, err
	}
	if len(data) == 0 {
		return gjson.Result{}, nil
	}

	r := gjson.ParseBytes(data)
	if err := businessError(r); err != nil {
		return gjson.Result{}, err
	}
	return r, nil
}

// businessError 2xx 응답이지만 status=false와 함께 message/error를 돌려준 경우를 실패로 처리합니다.
func businessError(r gjson.Result) error {
	if !r.IsObject() {
		return nil
	}
	status := r.Get("status")
	if status.Type != gjson.False {
		return nil
	}

	msg := field(r, "message", "error").String()
	if msg == "" {
		msg = "درخواست با خطا مواجه شد"
	}
	return newBusinessError(apperrors.ExecutionFailed, msg)
}

// unwrapData {data: {...}} 또는 {product: {...}} 형태의 응답을 벗겨냅니다.
func unwrapData(r gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && (v.IsObject() || v.IsArray()) {
			return v
		}
	}
	return r
}

// numericIDs 숫자로 표현 가능한 ID는 숫자로, 그 외에는 문자열로 전송합니다.
func numericIDs(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			out = append(out, n)
		} else {
			out = append(out, id)
		}
	}
	return out
}

func requireID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Newf(apperrors.InvalidInput, "%s 값이 비어 있습니다", name)
	}
	return nil
}
