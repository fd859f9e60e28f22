package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// PageSnapshot 목록 화면의 상태. 상품 상세에서 돌아왔을 때 그대로 복원됩니다.
type PageSnapshot struct {
	Kind           backend.ListKind  `json:"kind"`
	Products       []backend.Product `json:"products"`
	CurrentPage    int               `json:"currentPage"`
	SearchTerm     string            `json:"searchTerm"`
	HasMorePages   bool              `json:"hasMorePages"`
	ScrollPosition int               `json:"scrollPosition"`
	IsInitialized  bool              `json:"isInitialized"`
	State          SectionState      `json:"state"`
}

// ListPage 내 상품, 저렴한 상품, 비싼 상품 목록 화면 하나의 상태입니다.
type ListPage struct {
	app  *App
	kind backend.ListKind

	mu             sync.Mutex
	products       []backend.Product
	currentPage    int
	searchTerm     string
	hasMorePages   bool
	scrollPosition int
	initialized    bool
	sec            section
}

func newListPage(app *App, kind backend.ListKind) *ListPage {
	return &ListPage{
		app:      app,
		kind:     kind,
		products: []backend.Product{},
		sec:      newSection(),
	}
}

func (p *ListPage) Kind() backend.ListKind { return p.kind }

// Snapshot 현재 상태의 복사본을 반환합니다.
func (p *ListPage) Snapshot() PageSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked()
}

func (p *ListPage) snapshotLocked() PageSnapshot {
	return PageSnapshot{
		Kind:           p.kind,
		Products:       slices.Clone(p.products),
		CurrentPage:    p.currentPage,
		SearchTerm:     p.searchTerm,
		HasMorePages:   p.hasMorePages,
		ScrollPosition: p.scrollPosition,
		IsInitialized:  p.initialized,
		State:          p.sec.state,
	}
}

// Init 목록 화면에 들어올 때 호출합니다. 이미 불러온 상태가 있으면 다시 요청하지 않고 그대로 반환합니다.
func (p *ListPage) Init(ctx context.Context) (PageSnapshot, error) {
	p.mu.Lock()
	if p.initialized {
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.app.nav.Navigate(Route{Name: RouteName(p.kind)})
		return snap, nil
	}
	p.mu.Unlock()

	p.app.nav.Navigate(Route{Name: RouteName(p.kind)})
	return p.Load(ctx, "")
}

// Load 검색어로 첫 페이지를 다시 불러옵니다. 기존 목록과 스크롤 위치는 응답으로 대체됩니다.
func (p *ListPage) Load(ctx context.Context, searchTerm string) (PageSnapshot, error) {
	if err := p.app.requireAuth(ctx); err != nil {
		return p.Snapshot(), newUserError(err, MsgGenericFailure)
	}

	p.mu.Lock()
	gen := p.sec.begin()
	p.searchTerm = searchTerm
	p.mu.Unlock()

	page, err := p.app.backend.Products(ctx, p.kind, 1, searchTerm)

	p.mu.Lock()
	if !p.sec.current(gen) {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, nil
	}
	if err != nil {
		p.sec.fail(err, MsgGenericFailure)
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.logFailure(1, err)
		return snap, newUserError(p.app.guard(ctx, err), MsgGenericFailure)
	}

	p.products = slices.Clone(page.Products)
	p.currentPage = 1
	p.hasMorePages = len(page.Products) > 0
	p.scrollPosition = 0
	p.initialized = true
	p.sec.succeed()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	return snap, nil
}

// LoadMore 다음 페이지를 불러와 목록 뒤에 붙입니다.
//
// 더 불러올 페이지가 없거나 이미 요청 중이면 아무것도 하지 않습니다. 페이지 번호는 요청이 성공했을 때만 증가하며,
// 빈 페이지를 받으면 HasMorePages가 false가 됩니다.
func (p *ListPage) LoadMore(ctx context.Context) (PageSnapshot, error) {
	if err := p.app.requireAuth(ctx); err != nil {
		return p.Snapshot(), newUserError(err, MsgGenericFailure)
	}

	p.mu.Lock()
	if !p.initialized || !p.hasMorePages || p.sec.state.Status == StatusLoading {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, nil
	}
	gen := p.sec.begin()
	next := p.currentPage + 1
	searchTerm := p.searchTerm
	p.mu.Unlock()

	page, err := p.app.backend.Products(ctx, p.kind, next, searchTerm)

	p.mu.Lock()
	if !p.sec.current(gen) {
		snap := p.snapshotLocked()
		p.mu.Unlock()
		return snap, nil
	}
	if err != nil {
		p.sec.fail(err, MsgGenericFailure)
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.logFailure(next, err)
		return snap, newUserError(p.app.guard(ctx, err), MsgGenericFailure)
	}

	p.products = appendUniqueProducts(p.products, page.Products)
	p.currentPage = next
	p.hasMorePages = len(page.Products) > 0
	p.sec.succeed()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	return snap, nil
}

// SetScrollPosition 상품 상세로 이동하기 전의 스크롤 위치를 기억합니다.
func (p *ListPage) SetScrollPosition(pos int) PageSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	p.scrollPosition = pos
	return p.snapshotLocked()
}

// remove 목록에서 상품을 뺍니다. 비싼 상품 목록에서 해제했을 때 사용됩니다.
func (p *ListPage) remove(productID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.products = slices.DeleteFunc(p.products, func(x backend.Product) bool { return x.ID == productID })
}

// clear 캐시를 비웁니다. 진행 중인 요청의 응답은 버려집니다.
func (p *ListPage) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.products = []backend.Product{}
	p.currentPage = 0
	p.searchTerm = ""
	p.hasMorePages = false
	p.scrollPosition = 0
	p.initialized = false
	p.sec.reset()
}

func (p *ListPage) logFailure(page int, err error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"list":  p.kind,
		"page":  page,
		"error": err.Error(),
	}).Warn("상품 목록 조회 실패")
}

// appendUniqueProducts 이미 목록에 있는 상품은 건너뛰고 붙입니다.
func appendUniqueProducts(dst, src []backend.Product) []backend.Product {
	seen := make(map[string]struct{}, len(dst))
	for _, p := range dst {
		seen[p.ID] = struct{}{}
	}
	for _, p := range src {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		dst = append(dst, p)
	}
	return dst
}

// SetExpensive 상품을 비싼 상품 목록에 추가하거나 해제합니다.
// 추가하면 저렴한 상품 목록 캐시에서, 해제하면 비싼 상품 목록 캐시에서 바로 뺍니다.
func (a *App) SetExpensive(ctx context.Context, productID string, expensive bool) error {
	if err := a.requireAuth(ctx); err != nil {
		return newUserError(err, MsgMutationFailure)
	}

	var err error
	if expensive {
		err = a.backend.AddExpensive(ctx, productID)
	} else {
		err = a.backend.RemoveExpensive(ctx, productID)
	}
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": productID,
			"expensive":  expensive,
			"error":      err.Error(),
		}).Warn("비싼 상품 설정 실패")
		return newUserError(a.guard(ctx, err), MsgMutationFailure)
	}

	kind := backend.ListExpensive
	if expensive {
		kind = backend.ListCheap
	}
	if p, lerr := a.List(kind); lerr == nil {
		p.remove(productID)
	}
	return nil
}
