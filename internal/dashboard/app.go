// Package dashboard 판매자 대시보드의 화면 상태를 관리합니다.
//
// App은 인증 상태, 현재 화면, 목록 화면별 캐시, 상품 상세 화면의 비동기 영역을 하나의 값으로 묶습니다.
// 각 영역은 요청 세대(generation)로 늦게 도착한 응답을 버리며, 어느 요청에서든 401이 발생하면
// 인증 토큰을 지우고 로그인 화면으로 이동합니다.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/session"
	"github.com/darkkaiser/competitor-dashboard/pkg/concurrency"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

const component = "dashboard"

// Options 화면 상태 관리 설정
type Options struct {
	// OverviewRefreshDelay 경쟁 상품 추가/삭제 후 요약 정보를 다시 불러오기 전 대기 시간. 0이면 바로 갱신합니다.
	OverviewRefreshDelay time.Duration

	AddQueueCapacity    int
	CompetitorsPageSize int
}

func OptionsFromConfig(cfg config.DashboardConfig) Options {
	return Options{
		OverviewRefreshDelay: cfg.OverviewRefreshDelay,
		AddQueueCapacity:     cfg.AddQueueCapacity,
		CompetitorsPageSize:  cfg.CompetitorsPageSize,
	}
}

// App 대시보드 전체 상태
type App struct {
	backend Backend
	session *session.Session
	nav     *Navigator
	opts    Options

	// addQueue 경쟁 상품 추가 요청을 한 번에 하나씩 순서대로 보냅니다.
	addQueue *concurrency.SerialQueue

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	lists   map[backend.ListKind]*ListPage
	lastTop RouteName
	product *ProductPage
}

func NewApp(b Backend, s *session.Session, opts Options) *App {
	if opts.CompetitorsPageSize <= 0 {
		opts.CompetitorsPageSize = config.DefaultCompetitorsPageSize
	}
	if opts.AddQueueCapacity <= 0 {
		opts.AddQueueCapacity = config.DefaultAddQueueCapacity
	}

	initial := Route{Name: RouteLogin}
	if s.IsAuthenticated() {
		initial = Route{Name: RouteMyProducts}
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		backend:  b,
		session:  s,
		nav:      NewNavigator(initial),
		opts:     opts,
		addQueue: concurrency.NewSerialQueue(opts.AddQueueCapacity),
		ctx:      ctx,
		cancel:   cancel,
		lists:    make(map[backend.ListKind]*ListPage),
	}
	if initial.topLevel() {
		a.lastTop = initial.Name
	}

	for _, kind := range []backend.ListKind{backend.ListMyProducts, backend.ListCheap, backend.ListExpensive} {
		a.lists[kind] = newListPage(a, kind)
	}
	a.product = newProductPage(a)

	a.nav.OnChange(a.onNavigate)

	return a
}

// Close 예약된 갱신 작업과 경쟁 상품 추가 대기열을 정리합니다.
func (a *App) Close() {
	a.cancel()
	a.product.stopRefresh()
	a.addQueue.Close()
}

func (a *App) Navigator() *Navigator { return a.nav }

func (a *App) Session() *session.Session { return a.session }

// List 목록 화면의 상태 컨테이너를 반환합니다.
func (a *App) List(kind backend.ListKind) (*ListPage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.lists[kind]
	if !ok {
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 상품 목록입니다: '%s'", kind)
	}
	return p, nil
}

// Product 상품 상세 화면의 상태 컨테이너를 반환합니다.
func (a *App) Product() *ProductPage {
	return a.product
}

// onNavigate 다른 목록 화면으로 이동하면 나머지 목록 화면의 캐시를 비웁니다.
// 상품 상세로 들어갔다가 돌아오는 경우에는 목록 상태(스크롤 위치 포함)를 유지합니다.
func (a *App) onNavigate(from, to Route) {
	if to.Name == RouteLogin {
		a.product.reset()
		return
	}
	if !to.topLevel() {
		return
	}

	a.mu.Lock()
	changed := a.lastTop != to.Name
	a.lastTop = to.Name
	var stale []*ListPage
	if changed {
		for kind, p := range a.lists {
			if RouteName(kind) != to.Name {
				stale = append(stale, p)
			}
		}
	}
	a.mu.Unlock()

	for _, p := range stale {
		p.clear()
	}
	if changed {
		a.product.reset()
	}
}

// requireAuth 인증 토큰이 없으면 로그인 화면으로 이동하고 ErrLoginRequired를 반환합니다.
func (a *App) requireAuth(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		return nil
	}
	return a.guard(ctx, ErrLoginRequired)
}

// guard 401 에러이면 인증 토큰을 지우고 현재 위치를 기억한 뒤 로그인 화면으로 이동합니다.
// 어떤 요청에서 발생했는지와 관계없이 같은 방식으로 처리하며, 전달받은 에러를 그대로 반환합니다.
//
// 컴포넌트의 mutex를 잡은 상태에서 호출하면 안 됩니다.
func (a *App) guard(ctx context.Context, err error) error {
	if err == nil || !apperrors.Is(err, apperrors.Unauthorized) {
		return err
	}

	if clearErr := a.session.ClearToken(ctx); clearErr != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": clearErr.Error(),
		}).Error("인증 토큰 삭제 실패: 저장소 오류")
	}

	from := a.nav.Current()
	if from.Name != RouteLogin && from.Name != RouteSetPassword {
		_ = a.session.SetFromHint(ctx, from.Path())
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"from":  from.Path(),
		"error": err.Error(),
	}).Warn("인증 만료: 토큰을 삭제하고 로그인 화면으로 이동함")

	a.nav.Navigate(Route{Name: RouteLogin})

	return err
}

// Back 상품 상세 화면에서 마지막으로 보던 목록 화면으로 돌아갑니다.
func (a *App) Back() Route {
	to := Route{Name: RouteMyProducts}
	if last := a.nav.LastSection(); last != "" {
		to = Route{Name: last}
	}
	a.nav.Navigate(to)
	return to
}
