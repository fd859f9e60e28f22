package session

import (
	"time"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// defaultPendingTTL 만료 시각을 알 수 없는 임시 토큰을 보관하는 시간
const defaultPendingTTL = 15 * time.Minute

// PendingSSO SSO 로그인 후 비밀번호 설정이 끝나기 전까지 보관하는 임시 정보입니다.
type PendingSSO struct {
	TempToken string    `json:"temp_token"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`

	// Username, Password 비밀번호 설정 응답으로 받은 로그인 정보. 자동 로그인 직후 삭제됩니다.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// NewPendingSSO 백엔드가 발급한 임시 토큰에서 만료 시각과 주체를 읽어 PendingSSO를 생성합니다.
//
// 서명 검증은 백엔드의 몫이므로 여기서는 클레임만 읽습니다. JWT 형식이 아니면 기본 보관 시간을 적용합니다.
func NewPendingSSO(tempToken string, now time.Time) (PendingSSO, error) {
	if tempToken == "" {
		return PendingSSO{}, apperrors.New(apperrors.InvalidInput, "SSO 임시 토큰이 비어 있습니다")
	}

	p := PendingSSO{
		TempToken: tempToken,
		ExpiresAt: now.Add(defaultPendingTTL),
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tempToken, claims); err != nil {
		return p, nil
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if !exp.After(now) {
			return PendingSSO{}, apperrors.New(apperrors.Unauthorized, "SSO 임시 토큰이 만료되었습니다")
		}
		p.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil {
		p.Subject = sub
	}

	return p, nil
}
