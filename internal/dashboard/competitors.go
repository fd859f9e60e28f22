package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// CompetitorsView 경쟁 상품 목록 영역의 상태. 삭제한 경쟁 상품은 Competitors에서 제외됩니다.
type CompetitorsView struct {
	Competitors []backend.Competitor `json:"competitors"`
	CurrentPage int                  `json:"currentPage"`
	HasMore     bool                 `json:"hasMore"`
	State       SectionState         `json:"state"`
}

// CompetitorsList 열려 있는 상품의 경쟁 상품 목록을 페이지 단위로 불러옵니다.
//
// 경쟁 상품 연결 정보(refs)는 Refresh 때 한 번만 조회하고, 다음 페이지는 그 목록을 기준으로 나눕니다.
// 삭제에 성공한 경쟁 상품은 removed에 기록해 두고 목록을 다시 불러오기 전까지 화면에서 숨깁니다.
type CompetitorsList struct {
	app *App

	mu          sync.Mutex
	id          string
	refs        []backend.CompetitorRef
	items       []backend.Competitor
	page        int
	hasMore     bool
	initialized bool
	removed     map[string]struct{}
	sec         section
}

func newCompetitorsList(app *App) *CompetitorsList {
	return &CompetitorsList{
		app:     app,
		items:   []backend.Competitor{},
		removed: make(map[string]struct{}),
		sec:     newSection(),
	}
}

func (c *CompetitorsList) View() CompetitorsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewLocked()
}

func (c *CompetitorsList) viewLocked() CompetitorsView {
	return CompetitorsView{
		Competitors: c.visibleLocked(),
		CurrentPage: c.page,
		HasMore:     c.hasMore,
		State:       c.sec.state,
	}
}

// Visible 화면에 표시할 경쟁 상품 목록
func (c *CompetitorsList) Visible() []backend.Competitor {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.visibleLocked()
}

func (c *CompetitorsList) visibleLocked() []backend.Competitor {
	visible := make([]backend.Competitor, 0, len(c.items))
	for _, item := range c.items {
		if _, ok := c.removed[item.ID]; !ok {
			visible = append(visible, item)
		}
	}
	return visible
}

// Load 첫 페이지를 불러옵니다. Refresh와 같습니다.
func (c *CompetitorsList) Load(ctx context.Context) (CompetitorsView, error) {
	return c.Refresh(ctx)
}

// Refresh 목록을 비우고 첫 페이지부터 다시 불러옵니다.
func (c *CompetitorsList) Refresh(ctx context.Context) (CompetitorsView, error) {
	c.mu.Lock()
	id := c.id
	if id == "" {
		c.mu.Unlock()
		return CompetitorsView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	gen := c.sec.begin()
	c.refs = nil
	c.items = []backend.Competitor{}
	c.page = 0
	c.hasMore = false
	c.initialized = false
	c.mu.Unlock()

	refs, err := c.app.backend.CompetitorRefs(ctx, id)

	c.mu.Lock()
	if !c.sec.current(gen) {
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}
	if err != nil {
		return c.failLocked(ctx, id, 1, err)
	}
	c.refs = refs
	c.mu.Unlock()

	return c.fetch(ctx, id, gen, refs, 1)
}

// LoadMore 다음 페이지를 불러와 뒤에 붙입니다. 페이지 번호는 요청이 성공했을 때만 증가합니다.
func (c *CompetitorsList) LoadMore(ctx context.Context) (CompetitorsView, error) {
	c.mu.Lock()
	id := c.id
	if id == "" {
		c.mu.Unlock()
		return CompetitorsView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	if !c.initialized || !c.hasMore || c.sec.state.Status == StatusLoading {
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}
	gen := c.sec.begin()
	refs := c.refs
	next := c.page + 1
	c.mu.Unlock()

	return c.fetch(ctx, id, gen, refs, next)
}

func (c *CompetitorsList) fetch(ctx context.Context, id string, gen uint64, refs []backend.CompetitorRef, page int) (CompetitorsView, error) {
	result, err := c.app.backend.CompetitorsPage(ctx, refs, page, c.app.opts.CompetitorsPageSize)

	c.mu.Lock()
	if !c.sec.current(gen) {
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}
	if err != nil {
		return c.failLocked(ctx, id, page, err)
	}

	for _, item := range result.Competitors {
		if !slices.ContainsFunc(c.items, func(x backend.Competitor) bool { return x.ID == item.ID }) {
			c.items = append(c.items, item)
		}
	}
	c.page = page
	c.hasMore = result.HasMore
	c.initialized = true
	c.pruneRemovedLocked()
	c.sec.succeed()
	v := c.viewLocked()
	c.mu.Unlock()

	return v, nil
}

// failLocked c.mu를 잡은 상태에서 호출하며, 기록을 마친 뒤 잠금을 풉니다.
func (c *CompetitorsList) failLocked(ctx context.Context, id string, page int, err error) (CompetitorsView, error) {
	c.sec.fail(err, MsgGenericFailure)
	v := c.viewLocked()
	c.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"product_id": id,
		"page":       page,
		"error":      err.Error(),
	}).Warn("경쟁 상품 목록 조회 실패")
	return v, newUserError(c.app.guard(ctx, err), MsgGenericFailure)
}

// pruneRemovedLocked 목록을 끝까지 불러왔는데도 없는 상품은 서버에서도 삭제된 것이므로 기록에서 지웁니다.
func (c *CompetitorsList) pruneRemovedLocked() {
	if c.hasMore {
		return
	}
	for id := range c.removed {
		if !slices.ContainsFunc(c.items, func(x backend.Competitor) bool { return x.ID == id }) {
			delete(c.removed, id)
		}
	}
}

func (c *CompetitorsList) markRemoved(opID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removed[opID] = struct{}{}
}

func (c *CompetitorsList) unmarkRemoved(opID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.removed, opID)
}

// isRemoved 이 화면에서 삭제한 경쟁 상품이면 true
func (c *CompetitorsList) isRemoved(opID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.removed[opID]
	return ok
}

func (c *CompetitorsList) reset(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.id = productID
	c.refs = nil
	c.items = []backend.Competitor{}
	c.page = 0
	c.hasMore = false
	c.initialized = false
	c.removed = make(map[string]struct{})
	c.sec.reset()
}
