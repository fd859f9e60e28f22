package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

const (
	// KeyAuthToken 영구 저장소에 인증 토큰을 기록하는 키
	KeyAuthToken = "authToken"

	keyFromHint   = "from"
	keyPendingSSO = "pendingSSO"
)

// Session 인증 토큰과 로그인 흐름의 임시 상태를 관리합니다.
//
// 토큰은 메모리에 캐시되어 Token 호출이 저장소를 거치지 않으며, 변경은 영구 저장소에 먼저 기록된 뒤 캐시에 반영됩니다.
type Session struct {
	durable   Store
	transient Store

	mu    sync.RWMutex
	token string

	now func() time.Time
}

func New(durable, transient Store) *Session {
	if transient == nil {
		transient = NewMemoryStore()
	}

	return &Session{
		durable:   durable,
		transient: transient,
		now:       time.Now,
	}
}

// Now 세션이 만료 시각 계산에 사용하는 현재 시각
func (s *Session) Now() time.Time {
	return s.now()
}

// Restore 영구 저장소에 남아 있는 인증 토큰을 불러옵니다.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.durable.Get(ctx, KeyAuthToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"token": applog.MaskToken(token),
	}).Info("저장된 인증 토큰을 불러왔습니다")

	return nil
}

// Token 현재 인증 토큰을 반환합니다. 로그인하지 않았으면 빈 문자열입니다.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.New(apperrors.InvalidInput, "인증 토큰이 비어 있습니다")
	}
	if err := s.durable.Set(ctx, KeyAuthToken, token, 0); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return nil
}

// ClearToken 인증 토큰을 지웁니다. 저장소 삭제에 실패해도 메모리의 토큰은 지워집니다.
func (s *Session) ClearToken(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	return s.durable.Delete(ctx, KeyAuthToken)
}

// SetFromHint 로그인 화면으로 이동하기 직전의 위치를 기억합니다.
func (s *Session) SetFromHint(ctx context.Context, from string) error {
	if from == "" {
		return s.transient.Delete(ctx, keyFromHint)
	}
	return s.transient.Set(ctx, keyFromHint, from, 0)
}

// TakeFromHint 기억한 위치를 반환하고 지웁니다.
func (s *Session) TakeFromHint(ctx context.Context) string {
	from, err := s.transient.Get(ctx, keyFromHint)
	if err != nil {
		return ""
	}
	_ = s.transient.Delete(ctx, keyFromHint)
	return from
}

func (s *Session) SetPendingSSO(ctx context.Context, p PendingSSO) error {
	data, err := json.Marshal(p)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "SSO 임시 정보를 직렬화하지 못했습니다")
	}

	ttl := p.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.New(apperrors.Unauthorized, "SSO 임시 토큰이 만료되었습니다")
	}
	return s.transient.Set(ctx, keyPendingSSO, string(data), ttl)
}

// PendingSSO 진행 중인 SSO 비밀번호 설정 정보를 반환합니다. 없거나 만료되었으면 Unauthorized 에러를 반환합니다.
func (s *Session) PendingSSO(ctx context.Context) (PendingSSO, error) {
	raw, err := s.transient.Get(ctx, keyPendingSSO)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PendingSSO{}, apperrors.New(apperrors.Unauthorized, "진행 중인 SSO 인증 정보가 없습니다")
		}
		return PendingSSO{}, err
	}

	var p PendingSSO
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PendingSSO{}, apperrors.Wrap(err, apperrors.Internal, "SSO 임시 정보를 해석하지 못했습니다")
	}
	return p, nil
}

func (s *Session) ClearPendingSSO(ctx context.Context) error {
	return s.transient.Delete(ctx, keyPendingSSO)
}

// Health 영구 저장소에 접근할 수 있는지 확인합니다.
func (s *Session) Health(ctx context.Context) error {
	if _, err := s.durable.Get(ctx, KeyAuthToken); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Close 저장소 연결을 닫습니다.
func (s *Session) Close() error {
	return errors.Join(s.durable.Close(), s.transient.Close())
}
