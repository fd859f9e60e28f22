package session

import (
	"context"
	"errors"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// redisStore 여러 대시보드 인스턴스가 같은 로그인 상태를 공유할 때 사용하는 Redis 저장소입니다.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ Store = (*redisStore)(nil)

func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (Store, error) {
	if cfg.Addr == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "Redis 세션 저장소의 주소(addr)가 설정되지 않았습니다")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "Redis 세션 저장소(%s)에 연결할 수 없습니다", cfg.Addr)
	}

	return newRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

func newRedisStoreWithClient(client *redis.Client, keyPrefix string) *redisStore {
	return &redisStore{client: client, keyPrefix: keyPrefix}
}

func (s *redisStore) key(key string) string {
	return s.keyPrefix + key
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Unavailable, "Redis에서 세션 값을 조회하지 못했습니다")
	}
	return v, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "Redis에 세션 값을 저장하지 못했습니다")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "Redis에서 세션 값을 삭제하지 못했습니다")
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
