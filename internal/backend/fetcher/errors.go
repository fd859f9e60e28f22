package fetcher

import (
	"strings"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

var (
	// ErrMissingResponseContentType 응답에 Content-Type 헤더가 없을 때 반환됩니다.
	ErrMissingResponseContentType = apperrors.New(apperrors.ParsingFailed, "응답에 Content-Type 헤더가 없습니다")

	// ErrMaxRetriesExceeded 최대 재시도 횟수를 모두 소진했을 때의 원인 에러입니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
)

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.Newf(apperrors.ParsingFailed, "응답 본문의 크기가 허용된 한도(%d 바이트)를 초과했습니다", limit)
}

func newErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.Newf(apperrors.ParsingFailed, "응답 본문의 크기(%d 바이트)가 허용된 한도(%d 바이트)를 초과했습니다", contentLength, limit)
}

func newErrUnsupportedMediaType(mediaType string, allowed []string) error {
	return apperrors.Newf(apperrors.ParsingFailed, "지원하지 않는 응답 형식입니다(%s). 허용된 형식: %s", mediaType, strings.Join(allowed, ", "))
}

func newErrMaxRetriesExceeded(lastErr error) error {
	if lastErr == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(lastErr, apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
}

func newErrRequestFailed(err error, target string) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "백엔드 서버에 연결할 수 없습니다(%s)", target)
}
