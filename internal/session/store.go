// Package session 인증 토큰과 로그인 과정의 임시 상태를 보관합니다.
//
// 인증 토큰(authToken)은 재시작 후에도 유지되어야 하므로 파일 또는 Redis 저장소(Store)에 기록하고,
// 마지막 이동 위치(from)와 SSO 비밀번호 설정 단계의 임시 정보는 프로세스 메모리에만 보관합니다.
package session

import (
	"context"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

const component = "session"

// ErrNotFound 저장소에 키가 없거나 만료되었을 때 반환됩니다.
var ErrNotFound = apperrors.New(apperrors.NotFound, "저장된 값이 없습니다")

// Store 문자열 값을 키 단위로 보관하는 저장소입니다.
type Store interface {
	Get(ctx context.Context, key string) (string, error)

	// Set ttl이 0이면 만료되지 않습니다.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete 키가 없어도 에러를 반환하지 않습니다.
	Delete(ctx context.Context, key string) error

	Close() error
}

// NewStoreFromConfig 설정에 지정된 종류의 영구 저장소를 생성합니다.
func NewStoreFromConfig(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Store {
	case config.SessionStoreFile, "":
		return NewFileStore(cfg.Dir)
	case config.SessionStoreRedis:
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 세션 저장소입니다: '%s'", cfg.Store)
	}
}
