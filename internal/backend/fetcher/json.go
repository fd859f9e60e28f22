package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"
)

// FetchRaw 요청 본문(body)을 JSON으로 인코딩하여 전송하고, 응답 본문을 UTF-8 바이트로 반환합니다.
//
// 응답이 비어 있거나 204 No Content이면 nil을 반환합니다. 응답 본문이 유효한 JSON이 아니면 ParsingFailed 에러를 반환합니다.
func FetchRaw(ctx context.Context, f Fetcher, method, url string, header http.Header, body any) ([]byte, error) {
	var reqBody io.Reader
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문을 JSON으로 변환하지 못했습니다")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "JSON 요청 생성에 실패했습니다(%s)", url)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if payload != nil {
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := f.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	contentType := resp.Header.Get("Content-Type")
	r, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":          redactURL(req.URL),
			"content_type": contentType,
			"error":        err.Error(),
		}).Warn("문자 인코딩 변환 실패: 인코딩 변환 없이 JSON 파싱을 계속함")

		r = resp.Body
	}

	data, err := io.ReadAll(r)
	if err != nil {
		if apperrors.UnderlyingType(err) != apperrors.Unknown {
			return nil, err
		}
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "응답 본문을 읽는 중 에러가 발생했습니다(%s)", redactURL(req.URL))
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "응답 데이터가 올바른 JSON 형식이 아닙니다(%s)", redactURL(req.URL))
	}

	return data, nil
}

// FetchJSON FetchRaw로 받은 응답을 v로 디코딩합니다. 응답이 비어 있으면 v를 변경하지 않습니다.
func FetchJSON(ctx context.Context, f Fetcher, method, url string, header http.Header, body any, v any) error {
	data, err := FetchRaw(ctx, f, method, url, header, body)
	if err != nil {
		return err
	}
	if len(data) == 0 || v == nil {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "응답 데이터의 JSON 변환에 실패했습니다(%s)", url)
	}
	return nil
}
