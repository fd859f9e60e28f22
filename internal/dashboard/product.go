package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// ProductView 상품 상세 화면 전체의 상태
type ProductView struct {
	ProductID   string          `json:"productId"`
	Detail      DetailView      `json:"detail"`
	Overview    OverviewView    `json:"overview"`
	Competitors CompetitorsView `json:"competitors"`
	Similar     SimilarView     `json:"similar"`
}

// ProductPage 상품 상세 화면의 상태입니다.
//
// 상세 정보, 경쟁 상품 요약, 경쟁 상품 목록, 유사 상품 검색은 서로 독립적으로 불러오며 각자의 상태를 가집니다.
// 다른 상품을 열면 모든 영역이 초기화되고 이전 상품에 대한 응답은 버려집니다.
type ProductPage struct {
	app *App

	detail      *DetailFetcher
	overview    *OverviewFetcher
	competitors *CompetitorsList
	similar     *SimilarSearcher

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
}

func newProductPage(app *App) *ProductPage {
	return &ProductPage{
		app:         app,
		detail:      newDetailFetcher(app),
		overview:    newOverviewFetcher(app),
		competitors: newCompetitorsList(app),
		similar:     newSimilarSearcher(app),
	}
}

func (p *ProductPage) Detail() *DetailFetcher { return p.detail }
func (p *ProductPage) Overview() *OverviewFetcher { return p.overview }
func (p *ProductPage) Competitors() *CompetitorsList { return p.competitors }
func (p *ProductPage) Similar() *SimilarSearcher { return p.similar }

// ProductID 열려 있는 상품의 ID. 열려 있지 않으면 빈 문자열입니다.
func (p *ProductPage) ProductID() string {
	return p.detail.productID()
}

// Open 상품 상세 화면을 열고 상세 정보, 요약 정보, 경쟁 상품 첫 페이지를 동시에 불러옵니다.
//
// 각 영역의 실패는 해당 영역의 상태에만 기록됩니다. 다만 어느 영역에서든 인증이 만료되면
// 로그인 화면으로 이동하면서 영역 상태가 초기화되므로, 그 에러를 그대로 반환합니다.
func (p *ProductPage) Open(ctx context.Context, productID string) (ProductView, error) {
	if err := p.app.requireAuth(ctx); err != nil {
		return p.View(), newUserError(err, MsgGenericFailure)
	}

	if p.ProductID() != productID {
		p.switchTo(productID)
	}
	p.app.nav.Navigate(Route{Name: RouteProductDetail, ProductID: productID})

	var errs [3]error

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		_, errs[0] = p.detail.Load(ctx)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = p.overview.LoadFull(ctx)
	}()
	go func() {
		defer wg.Done()
		_, errs[2] = p.competitors.Load(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		var ue *UserError
		if errors.As(err, &ue) && ue.Kind == ErrorKindNeedsLogin {
			return p.View(), ue
		}
	}

	return p.View(), nil
}

// View 현재 상태의 복사본을 반환합니다.
func (p *ProductPage) View() ProductView {
	return ProductView{
		ProductID:   p.ProductID(),
		Detail:      p.detail.View(),
		Overview:    p.overview.View(),
		Competitors: p.competitors.View(),
		Similar:     p.similar.View(),
	}
}

func (p *ProductPage) switchTo(productID string) {
	p.stopRefresh()
	p.detail.reset(productID)
	p.overview.reset(productID)
	p.competitors.reset(productID)
	p.similar.reset(productID)
}

// reset 열려 있는 상품을 닫습니다.
func (p *ProductPage) reset() {
	p.switchTo("")
}

// scheduleRefresh 경쟁 상품이 바뀐 뒤 요약 정보(light)를 다시 불러오도록 예약합니다.
// 짧은 시간 안에 여러 번 호출되면 마지막 호출 기준으로 한 번만 실행됩니다.
func (p *ProductPage) scheduleRefresh(productID string) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	if p.refreshTimer != nil {
		p.refreshTimer.Stop()
	}

	p.refreshTimer = time.AfterFunc(p.app.opts.OverviewRefreshDelay, func() {
		if p.ProductID() != productID {
			return
		}
		if p.app.ctx.Err() != nil {
			return
		}

		if _, err := p.overview.RefreshLight(p.app.ctx); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_id": productID,
				"error":      err.Error(),
			}).Debug("경쟁 상품 요약 정보 갱신 실패")
		}
	})
}

func (p *ProductPage) stopRefresh() {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	if p.refreshTimer != nil {
		p.refreshTimer.Stop()
		p.refreshTimer = nil
	}
}
