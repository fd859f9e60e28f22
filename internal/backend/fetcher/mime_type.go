package fetcher

import (
	"mime"
	"net/http"
	"strings"

	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// MimeTypeFetcher 허용된 Content-Type의 응답만 통과시킵니다.
type MimeTypeFetcher struct {
	delegate Fetcher

	allowedMimeTypes        []string
	allowMissingContentType bool
}

var _ Fetcher = (*MimeTypeFetcher)(nil)

func NewMimeTypeFetcher(delegate Fetcher, allowedMimeTypes []string, allowMissingContentType bool) Fetcher {
	if len(allowedMimeTypes) == 0 {
		return delegate
	}

	return &MimeTypeFetcher{
		delegate:                delegate,
		allowedMimeTypes:        allowedMimeTypes,
		allowMissingContentType: allowMissingContentType,
	}
}

func (f *MimeTypeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		if f.allowMissingContentType {
			return resp, nil
		}

		drainAndCloseBody(resp.Body)
		return nil, ErrMissingResponseContentType
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"content_type": contentType,
			"url":          redactURL(req.URL),
			"error":        err.Error(),
		}).Warn("Content-Type 파싱 경고: 표준 형식이 아니어서 폴백 처리함")

		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}

	for _, t := range f.allowedMimeTypes {
		if strings.EqualFold(mediaType, t) {
			return resp, nil
		}
	}

	drainAndCloseBody(resp.Body)
	return nil, newErrUnsupportedMediaType(mediaType, f.allowedMimeTypes)
}

func (f *MimeTypeFetcher) Close() error {
	return f.delegate.Close()
}
