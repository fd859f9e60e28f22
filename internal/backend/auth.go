package backend

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

// Login 사용자 이름과 비밀번호로 로그인하여 인증 토큰을 발급받습니다.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, newBusinessError(apperrors.InvalidInput, "نام کاربری و رمز عبور را وارد کنید")
	}

	r, err := c.do(ctx, http.MethodPost, "/login", nil, nil, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{
		Status: field(r, "status").Bool(),
		Token:  field(r, "token", "access_token").String(),
	}
	if result.Token == "" {
		return LoginResult{}, newBusinessError(apperrors.InvalidInput, "نام کاربری یا رمز عبور اشتباه است")
	}
	result.Status = true

	return result, nil
}

// AuthStart SSO 인증을 시작할 리다이렉트 주소를 받아옵니다.
func (c *Client) AuthStart(ctx context.Context) (string, error) {
	r, err := c.get(ctx, "/auth/start", nil)
	if err != nil {
		return "", err
	}

	redirect := field(r, "redirect_uri", "redirect_url", "url").String()
	if redirect == "" {
		return "", apperrors.New(apperrors.ParsingFailed, "SSO 시작 응답에 redirect_uri가 없습니다")
	}
	return redirect, nil
}

// ExchangeToken SSO 콜백으로 받은 code와 state를 대시보드 토큰으로 교환합니다.
func (c *Client) ExchangeToken(ctx context.Context, code, state string) (ExchangeResult, error) {
	if code == "" || state == "" {
		return ExchangeResult{}, apperrors.New(apperrors.InvalidInput, "SSO 인증 코드(code)와 state가 필요합니다")
	}

	r, err := c.do(ctx, http.MethodPost, "/auth/exchange-token", nil, nil, map[string]string{
		"code":  code,
		"state": state,
	})
	if err != nil {
		return ExchangeResult{}, err
	}

	result := ExchangeResult{
		Token:       field(r, "token").String(),
		HasPassword: r.Get("has-password").Bool() || field(r, "has_password").Bool(),
	}
	if result.Token == "" {
		return ExchangeResult{}, apperrors.New(apperrors.ParsingFailed, "토큰 교환 응답에 token이 없습니다")
	}
	return result, nil
}

// SetPassword SSO로 발급받은 임시 토큰으로 대시보드 비밀번호를 설정합니다.
func (c *Client) SetPassword(ctx context.Context, tempToken, password string) (Credentials, error) {
	if tempToken == "" {
		return Credentials{}, apperrors.New(apperrors.Unauthorized, "임시 토큰이 없습니다")
	}
	if password == "" {
		return Credentials{}, newBusinessError(apperrors.InvalidInput, "رمز عبور را وارد کنید")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tempToken)

	r, err := c.do(ctx, http.MethodPost, "/password", nil, header, map[string]string{"password": password})
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Username: field(r, "username").String(),
		Password: field(r, "password").String(),
	}, nil
}
