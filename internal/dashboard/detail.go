package dashboard

import (
	"context"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// DetailView 상품 상세 정보 영역의 상태
type DetailView struct {
	Product *backend.Product `json:"product"`
	State   SectionState     `json:"state"`
}

// DetailFetcher 열려 있는 상품의 상세 정보를 불러옵니다.
// 요청 중에 다른 상품으로 바뀌거나 다시 요청하면 앞선 응답은 버려집니다.
type DetailFetcher struct {
	app *App

	mu      sync.Mutex
	id      string
	product *backend.Product
	sec     section
}

func newDetailFetcher(app *App) *DetailFetcher {
	return &DetailFetcher{app: app, sec: newSection()}
}

func (d *DetailFetcher) productID() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.id
}

func (d *DetailFetcher) View() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.viewLocked()
}

func (d *DetailFetcher) viewLocked() DetailView {
	v := DetailView{State: d.sec.state}
	if d.product != nil {
		p := *d.product
		v.Product = &p
	}
	return v
}

// selfPrice 불러온 내 상품 가격. 아직 불러오지 않았으면 false입니다.
func (d *DetailFetcher) selfPrice() (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.product == nil {
		return 0, false
	}
	return d.product.Price, true
}

func (d *DetailFetcher) Load(ctx context.Context) (DetailView, error) {
	d.mu.Lock()
	id := d.id
	if id == "" {
		d.mu.Unlock()
		return DetailView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	gen := d.sec.begin()
	d.mu.Unlock()

	product, err := d.app.backend.Product(ctx, id)

	d.mu.Lock()
	if !d.sec.current(gen) {
		v := d.viewLocked()
		d.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": id,
		}).Debug("이전 요청의 상품 상세 응답을 버림")
		return v, nil
	}
	if err != nil {
		d.sec.fail(err, MsgGenericFailure)
		v := d.viewLocked()
		d.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": id,
			"error":      err.Error(),
		}).Warn("상품 상세 조회 실패")
		return v, newUserError(d.app.guard(ctx, err), MsgGenericFailure)
	}

	d.product = &product
	d.sec.succeed()
	v := d.viewLocked()
	d.mu.Unlock()

	return v, nil
}

func (d *DetailFetcher) reset(productID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.id = productID
	d.product = nil
	d.sec.reset()
}
