package dashboard

import (
	"context"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/pricing"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// OverviewView 경쟁 상품 요약 영역의 상태. 내 상품 가격을 알게 되면 Badges가 채워집니다.
type OverviewView struct {
	Overview *backend.CompetitorsOverview `json:"overview"`
	Badges   pricing.Badges               `json:"badges"`
	State    SectionState                 `json:"state"`
}

// OverviewFetcher 경쟁 상품 수, 평균가, 최저가를 불러옵니다.
//
// 화면에 처음 들어올 때는 전체(full) 요약을, 경쟁 상품을 추가하거나 삭제한 뒤에는 가벼운(light) 요약을 요청합니다.
// light 갱신 중에도 이전 값은 계속 표시됩니다.
type OverviewFetcher struct {
	app *App

	mu       sync.Mutex
	id       string
	overview *backend.CompetitorsOverview
	sec      section
}

func newOverviewFetcher(app *App) *OverviewFetcher {
	return &OverviewFetcher{app: app, sec: newSection()}
}

func (o *OverviewFetcher) View() OverviewView {
	o.mu.Lock()
	v := OverviewView{State: o.sec.state}
	if o.overview != nil {
		ov := *o.overview
		v.Overview = &ov
	}
	o.mu.Unlock()

	if v.Overview != nil {
		if self, ok := o.app.product.detail.selfPrice(); ok {
			v.Badges = pricing.CompareOverview(self, v.Overview.MinPrice, v.Overview.AveragePrice)
		}
	}
	return v
}

func (o *OverviewFetcher) LoadFull(ctx context.Context) (OverviewView, error) {
	return o.load(ctx, false)
}

func (o *OverviewFetcher) RefreshLight(ctx context.Context) (OverviewView, error) {
	return o.load(ctx, true)
}

func (o *OverviewFetcher) load(ctx context.Context, light bool) (OverviewView, error) {
	o.mu.Lock()
	id := o.id
	if id == "" {
		o.mu.Unlock()
		return OverviewView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	gen := o.sec.begin()
	o.mu.Unlock()

	overview, err := o.app.backend.Overview(ctx, id, light)

	o.mu.Lock()
	if !o.sec.current(gen) {
		o.mu.Unlock()
		return o.View(), nil
	}
	if err != nil {
		o.sec.fail(err, MsgGenericFailure)
		o.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": id,
			"light":      light,
			"error":      err.Error(),
		}).Warn("경쟁 상품 요약 조회 실패")
		return o.View(), newUserError(o.app.guard(ctx, err), MsgGenericFailure)
	}

	o.overview = &overview
	o.sec.succeed()
	o.mu.Unlock()

	return o.View(), nil
}

func (o *OverviewFetcher) reset(productID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.id = productID
	o.overview = nil
	o.sec.reset()
}
