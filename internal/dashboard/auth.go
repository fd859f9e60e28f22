package dashboard

import (
	"context"
	"strings"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/session"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// Login 사용자 이름과 비밀번호로 로그인합니다.
//
// 성공하면 토큰을 저장하고 로그인 전에 보던 화면(없으면 내 상품 목록)으로 이동하며, 이동한 화면을 반환합니다.
// 실패하면 토큰은 저장되지 않고 화면에 보여줄 수 있는 *UserError를 반환합니다.
func (a *App) Login(ctx context.Context, username, password string) (Route, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Route{}, &UserError{Kind: ErrorKindFailure, Message: MsgInvalidLogin}
	}

	res, err := a.backend.Login(ctx, username, password)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"username": username,
			"error":    err.Error(),
		}).Warn("로그인 실패")

		// 로그인 요청의 401은 잘못된 로그인 정보이며 토큰 만료가 아닙니다.
		if apperrors.Is(err, apperrors.Unauthorized) {
			return Route{}, &UserError{Kind: ErrorKindFailure, Message: MsgInvalidLogin, cause: err}
		}
		return Route{}, newUserError(err, MsgInvalidLogin)
	}

	return a.completeLogin(ctx, res.Token)
}

func (a *App) completeLogin(ctx context.Context, token string) (Route, error) {
	if err := a.session.SetToken(ctx, token); err != nil {
		return Route{}, newUserError(err, MsgGenericFailure)
	}

	to := Route{Name: RouteMyProducts}
	if from, ok := ParseRoute(a.session.TakeFromHint(ctx)); ok && from.Name != RouteLogin && from.Name != RouteSetPassword {
		to = from
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"token": applog.MaskToken(token),
		"to":    to.Path(),
	}).Info("로그인 성공")

	a.nav.Navigate(to)
	return to, nil
}

// StartSSO 외부 인증 화면의 주소를 반환합니다.
func (a *App) StartSSO(ctx context.Context) (string, error) {
	uri, err := a.backend.AuthStart(ctx)
	if err != nil {
		return "", newUserError(err, MsgGenericFailure)
	}
	return uri, nil
}

// CompleteSSO 외부 인증에서 돌아온 code와 state로 토큰을 교환합니다.
//
// 이미 비밀번호가 설정된 계정이면 바로 로그인하고, 아니면 임시 토큰을 보관한 뒤 비밀번호 설정 화면으로 이동합니다.
func (a *App) CompleteSSO(ctx context.Context, code, state string) (Route, error) {
	if code == "" || state == "" {
		return Route{}, &UserError{Kind: ErrorKindFailure, Message: MsgGenericFailure}
	}

	res, err := a.backend.ExchangeToken(ctx, code, state)
	if err != nil {
		return Route{}, newUserError(err, MsgGenericFailure)
	}

	if res.HasPassword {
		return a.completeLogin(ctx, res.Token)
	}

	pending, err := session.NewPendingSSO(res.Token, a.session.Now())
	if err != nil {
		return Route{}, newUserError(err, MsgGenericFailure)
	}
	if err := a.session.SetPendingSSO(ctx, pending); err != nil {
		return Route{}, newUserError(err, MsgGenericFailure)
	}

	to := Route{Name: RouteSetPassword}
	a.nav.Navigate(to)
	return to, nil
}

// SetPassword SSO로 처음 로그인한 계정의 대시보드 비밀번호를 설정하고, 발급된 로그인 정보로 바로 로그인합니다.
func (a *App) SetPassword(ctx context.Context, password string) (Route, error) {
	if password == "" {
		return Route{}, &UserError{Kind: ErrorKindFailure, Message: MsgGenericFailure}
	}

	pending, err := a.session.PendingSSO(ctx)
	if err != nil {
		// 임시 토큰이 없거나 만료되었으면 처음부터 다시 로그인해야 한다.
		a.nav.Navigate(Route{Name: RouteLogin})
		return Route{}, newUserError(err, MsgGenericFailure)
	}

	creds, err := a.backend.SetPassword(ctx, pending.TempToken, password)
	if err != nil {
		if apperrors.Is(err, apperrors.Unauthorized) {
			_ = a.session.ClearPendingSSO(ctx)
			a.nav.Navigate(Route{Name: RouteLogin})
		}
		return Route{}, newUserError(err, MsgGenericFailure)
	}

	defer func() { _ = a.session.ClearPendingSSO(ctx) }()

	return a.Login(ctx, creds.Username, creds.Password)
}

// Logout 토큰을 지우고 모든 화면 상태를 초기화한 뒤 로그인 화면으로 이동합니다.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.ClearToken(ctx)

	a.mu.Lock()
	lists := make([]*ListPage, 0, len(a.lists))
	for _, p := range a.lists {
		lists = append(lists, p)
	}
	a.lastTop = ""
	a.mu.Unlock()

	for _, p := range lists {
		p.clear()
	}

	a.nav.Navigate(Route{Name: RouteLogin})

	if err != nil {
		return newUserError(err, MsgGenericFailure)
	}
	return nil
}
