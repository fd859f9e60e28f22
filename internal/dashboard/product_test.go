package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPage_Open(t *testing.T) {
	b := &fakeBackend{
		product: func(_ context.Context, id string) (backend.Product, error) {
			return backend.Product{ID: id, Title: "mug", Price: 100000}, nil
		},
		overview: func(_ context.Context, _ string, light bool) (backend.CompetitorsOverview, error) {
			assert.False(t, light)
			return backend.CompetitorsOverview{CompetitorsCount: 3, MinPrice: 90000, AveragePrice: 100000}, nil
		},
		competitorRefs: func(_ context.Context, id string) ([]backend.CompetitorRef, error) {
			assert.Equal(t, "1", id)
			return []backend.CompetitorRef{{OpProduct: "7", OpVendor: "shopA"}}, nil
		},
		competitorsPage: func(_ context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error) {
			assert.Equal(t, 2, pageSize)
			return pageOfRefs(refs, page, pageSize), nil
		},
	}
	app := newTestApp(t, b, "token")

	view, err := app.Product().Open(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, "1", view.ProductID)
	assert.Equal(t, Route{Name: RouteProductDetail, ProductID: "1"}, app.Navigator().Current())

	assert.Equal(t, StatusSuccess, view.Detail.State.Status)
	require.NotNil(t, view.Detail.Product)
	assert.Equal(t, int64(100000), view.Detail.Product.Price)

	assert.Equal(t, StatusSuccess, view.Overview.State.Status)
	require.NotNil(t, view.Overview.Badges.Lowest)
	assert.Equal(t, "-11% ارزان‌تر", view.Overview.Badges.Lowest.Text)
	assert.Equal(t, pricing.StyleClassCheaper, view.Overview.Badges.Lowest.StyleClass)
	require.NotNil(t, view.Overview.Badges.Average)
	assert.Equal(t, pricing.ToneNeutral, view.Overview.Badges.Average.Tone)

	assert.Equal(t, StatusSuccess, view.Competitors.State.Status)
	assert.Len(t, view.Competitors.Competitors, 1)
	assert.Equal(t, StatusIdle, view.Similar.State.Status)
}

func TestProductPage_SectionsFailIndependently(t *testing.T) {
	b := &fakeBackend{
		product: func(_ context.Context, id string) (backend.Product, error) {
			return backend.Product{ID: id, Price: 100}, nil
		},
		overview: func(context.Context, string, bool) (backend.CompetitorsOverview, error) {
			return backend.CompetitorsOverview{}, errors.New("timeout")
		},
	}
	app := newTestApp(t, b, "token")

	view, err := app.Product().Open(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, view.Detail.State.Status)
	assert.Equal(t, StatusError, view.Overview.State.Status)
	assert.Equal(t, ErrorKindFailure, view.Overview.State.ErrorKind)
	assert.Equal(t, StatusSuccess, view.Competitors.State.Status)
	assert.True(t, app.Session().IsAuthenticated())
}

func TestProductPage_OpenUnauthorized(t *testing.T) {
	ctx := context.Background()

	b := &fakeBackend{product: func(context.Context, string) (backend.Product, error) {
		return backend.Product{}, errUnauthorized
	}}
	app := newTestApp(t, b, "token")

	_, err := app.Product().Open(ctx, "1")

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, ErrorKindNeedsLogin, ue.Kind)
	assert.Equal(t, MsgLoginRequired, ue.Message)
	assert.False(t, app.Session().IsAuthenticated())
	assert.Equal(t, RouteLogin, app.Navigator().Current().Name)
	assert.Equal(t, "/product/1", app.Session().TakeFromHint(ctx))
}

func TestProductPage_OpenUnauthorizedFromCompetitors(t *testing.T) {
	b := &fakeBackend{competitorRefs: func(context.Context, string) ([]backend.CompetitorRef, error) {
		return nil, errUnauthorized
	}}
	app := newTestApp(t, b, "token")

	_, err := app.Product().Open(context.Background(), "1")

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, ErrorKindNeedsLogin, ue.Kind)
	assert.False(t, app.Session().IsAuthenticated())
}

func TestProductPage_NoBadgeWithoutCompetitorPrice(t *testing.T) {
	b := &fakeBackend{
		product: func(_ context.Context, id string) (backend.Product, error) {
			return backend.Product{ID: id, Price: 100}, nil
		},
	}
	app := newTestApp(t, b, "token")

	view, err := app.Product().Open(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, view.Overview.Badges.Lowest)
	assert.Nil(t, view.Overview.Badges.Average)
}

func TestDetailFetcher_DiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)

	b := &fakeBackend{product: func(_ context.Context, id string) (backend.Product, error) {
		started <- id
		if id == "1" {
			<-release
		}
		return backend.Product{ID: id, Title: "product " + id}, nil
	}}
	app := newTestApp(t, b, "token")
	page := app.Product()

	page.switchTo("1")
	done := make(chan DetailView)
	go func() {
		v, _ := page.Detail().Load(context.Background())
		done <- v
	}()
	require.Equal(t, "1", <-started)

	// 첫 요청이 끝나기 전에 다른 상품을 연다.
	page.switchTo("2")
	v, err := page.Detail().Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2", <-started)
	require.NotNil(t, v.Product)
	assert.Equal(t, "2", v.Product.ID)

	close(release)
	<-done

	final := page.Detail().View()
	require.NotNil(t, final.Product)
	assert.Equal(t, "2", final.Product.ID, "이전 상품에 대한 늦은 응답은 버려져야 합니다")
	assert.Equal(t, StatusSuccess, final.State.Status)
}

func TestDetailFetcher_NoProduct(t *testing.T) {
	app := newTestApp(t, &fakeBackend{}, "token")

	_, err := app.Product().Detail().Load(context.Background())
	assert.Error(t, err)
}

func TestCompetitorsList_Pagination(t *testing.T) {
	ctx := context.Background()

	var calls []int
	b := &fakeBackend{
		competitorRefs: func(context.Context, string) ([]backend.CompetitorRef, error) {
			return refsWithIDs("a", "b", "c"), nil
		},
		competitorsPage: func(_ context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error) {
			calls = append(calls, page)
			return pageOfRefs(refs, page, pageSize), nil
		},
	}
	app := newTestApp(t, b, "token")
	app.Product().switchTo("1")
	list := app.Product().Competitors()

	v, err := list.Load(ctx)
	require.NoError(t, err)
	assert.True(t, v.HasMore)

	v, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.CurrentPage)
	assert.False(t, v.HasMore)
	assert.Equal(t, []string{"a", "b", "c"}, competitorIDs(v.Competitors))

	_, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)

	v, err = list.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, []string{"a", "b"}, competitorIDs(v.Competitors))
}

func TestCompetitorsList_LoadMoreFailureKeepsPage(t *testing.T) {
	ctx := context.Background()

	fail := true
	b := &fakeBackend{
		competitorRefs: func(context.Context, string) ([]backend.CompetitorRef, error) {
			return refsWithIDs("1", "2", "3"), nil
		},
		competitorsPage: func(_ context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error) {
			if page == 2 && fail {
				fail = false
				return backend.CompetitorPage{}, errors.New("boom")
			}
			return pageOfRefs(refs, page, pageSize), nil
		},
	}
	app := newTestApp(t, b, "token")
	app.Product().switchTo("1")
	list := app.Product().Competitors()

	_, err := list.Load(ctx)
	require.NoError(t, err)

	v, err := list.LoadMore(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, StatusError, v.State.Status)

	v, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.CurrentPage)
	assert.Equal(t, []string{"1", "2", "3"}, competitorIDs(v.Competitors))
}

func TestCompetitorsList_LoadMoreAfterDelete(t *testing.T) {
	ctx := context.Background()

	var (
		mu        sync.Mutex
		server    = []string{"a", "b", "c", "d"}
		refsCalls int
	)
	b := &fakeBackend{
		competitorRefs: func(context.Context, string) ([]backend.CompetitorRef, error) {
			mu.Lock()
			defer mu.Unlock()
			refsCalls++
			return refsWithIDs(server...), nil
		},
		deleteCompetitor: func(_ context.Context, _, opID string) error {
			mu.Lock()
			defer mu.Unlock()
			server = slices.DeleteFunc(server, func(id string) bool { return id == opID })
			return nil
		},
	}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)
	list := app.Product().Competitors()
	assert.Equal(t, []string{"a", "b"}, competitorIDs(list.Visible()))

	require.NoError(t, app.DeleteCompetitor(ctx, "a"))

	// 삭제로 서버 목록이 줄어들어도 다음 페이지는 처음 조회한 연결 정보를 기준으로 나눈다.
	v, err := list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, competitorIDs(v.Competitors))
	assert.False(t, v.HasMore)
	assert.Equal(t, 1, refsCalls)

	v, err = list.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, competitorIDs(v.Competitors))
	assert.True(t, v.HasMore)
	assert.Equal(t, 2, refsCalls)
}

func TestDeleteCompetitor(t *testing.T) {
	ctx := context.Background()

	var lightRefreshes atomic.Int32
	var deleteFails atomic.Bool

	b := &fakeBackend{
		competitorRefs: func(context.Context, string) ([]backend.CompetitorRef, error) {
			return refsWithIDs("7", "8"), nil
		},
		overview: func(_ context.Context, _ string, light bool) (backend.CompetitorsOverview, error) {
			if light {
				lightRefreshes.Add(1)
			}
			return backend.CompetitorsOverview{CompetitorsCount: 1}, nil
		},
		deleteCompetitor: func(_ context.Context, selfID, opID string) error {
			assert.Equal(t, "1", selfID)
			if deleteFails.Load() {
				return errors.New("boom")
			}
			return nil
		},
	}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)

	deleteFails.Store(true)
	require.Error(t, app.DeleteCompetitor(ctx, "7"))
	assert.Equal(t, []string{"7", "8"}, competitorIDs(app.Product().Competitors().Visible()), "삭제에 실패하면 목록에 남아 있어야 합니다")

	deleteFails.Store(false)
	require.NoError(t, app.DeleteCompetitor(ctx, "7"))
	assert.Equal(t, []string{"8"}, competitorIDs(app.Product().Competitors().Visible()))
	assert.True(t, app.Product().Competitors().isRemoved("7"))

	assert.Eventually(t, func() bool { return lightRefreshes.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeleteCompetitor_Unauthorized(t *testing.T) {
	ctx := context.Background()

	b := &fakeBackend{deleteCompetitor: func(context.Context, string, string) error { return errUnauthorized }}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "5")
	require.NoError(t, err)

	err = app.DeleteCompetitor(ctx, "7")
	require.Error(t, err)
	assert.False(t, app.Session().IsAuthenticated())
	assert.Equal(t, RouteLogin, app.Navigator().Current().Name)
	assert.Equal(t, "/product/5", app.Session().TakeFromHint(ctx))
}

func TestAddCompetitor_RunsSequentially(t *testing.T) {
	ctx := context.Background()

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		added    []string
	)
	var lightRefreshes atomic.Int32

	b := &fakeBackend{
		addCompetitor: func(_ context.Context, selfID, opID, vendor string) error {
			mu.Lock()
			inFlight++
			maxSeen = max(maxSeen, inFlight)
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			added = append(added, opID)
			mu.Unlock()

			assert.Equal(t, "1", selfID)
			assert.Equal(t, "shop-"+opID, vendor)
			return nil
		},
		overview: func(_ context.Context, _ string, light bool) (backend.CompetitorsOverview, error) {
			if light {
				lightRefreshes.Add(1)
			}
			return backend.CompetitorsOverview{}, nil
		},
		search: func(_ context.Context, _ backend.SearchMode, _, _ string, page int) (backend.ProductPage, error) {
			if page > 1 {
				return backend.ProductPage{Products: []backend.Product{}}, nil
			}
			return backend.ProductPage{Products: productsWithIDs("10", "11", "12")}, nil
		},
	}
	app := newTestApp(t, b, "token", func(o *Options) { o.OverviewRefreshDelay = 200 * time.Millisecond })
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)
	_, err = app.Product().Similar().Fetch(ctx, backend.SearchCombined, "mug")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{"10", "11", "12"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, app.AddCompetitor(ctx, id, "shop-"+id))
		}()
	}
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, maxSeen)
	assert.ElementsMatch(t, []string{"10", "11", "12"}, added)
	mu.Unlock()

	for _, p := range app.Product().Similar().View().Products {
		assert.True(t, p.IsCompetitor, p.ID)
	}

	// 연달아 추가해도 요약 갱신은 한 번으로 합쳐진다.
	assert.Eventually(t, func() bool { return lightRefreshes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), lightRefreshes.Load())
}

func TestAddCompetitor_AfterSwitchingProduct(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	b := &fakeBackend{addCompetitor: func(context.Context, string, string, string) error {
		close(started)
		<-release
		return nil
	}}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)

	done := make(chan error)
	go func() { done <- app.AddCompetitor(ctx, "10", "shop") }()
	<-started

	_, err = app.Product().Open(ctx, "2")
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	_, ok := app.Product().Similar().overlayOf("10")
	assert.False(t, ok, "이전 상품에 대한 결과는 반영되지 않아야 합니다")
}

func TestAddCompetitor_NoProduct(t *testing.T) {
	app := newTestApp(t, &fakeBackend{}, "token")
	assert.Error(t, app.AddCompetitor(context.Background(), "10", "shop"))
}

func TestSimilarSearcher_Modes(t *testing.T) {
	ctx := context.Background()

	type call struct {
		mode  backend.SearchMode
		title string
		page  int
	}
	var calls []call

	b := &fakeBackend{
		product: func(_ context.Context, id string) (backend.Product, error) {
			return backend.Product{ID: id, Title: "blue mug"}, nil
		},
		search: func(_ context.Context, mode backend.SearchMode, title, productID string, page int) (backend.ProductPage, error) {
			assert.Equal(t, "1", productID)
			calls = append(calls, call{mode, title, page})
			if page > 2 {
				return backend.ProductPage{Products: []backend.Product{}}, nil
			}
			return backend.ProductPage{Products: productsWithIDs(fmt.Sprintf("%s-%d", mode, page))}, nil
		},
	}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)
	s := app.Product().Similar()

	v, err := s.Fetch(ctx, backend.SearchCombined, "")
	require.NoError(t, err)
	assert.Equal(t, "blue mug", v.Title, "검색어가 비어 있으면 상품 제목으로 검색해야 합니다")
	assert.Equal(t, 2, v.NextPage)
	assert.True(t, v.HasMore)

	v, err = s.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"combined-1", "combined-2"}, productIDs(v.Products))

	// 검색 방식을 바꾸면 이전 결과는 지워진다.
	v, err = s.Fetch(ctx, backend.SearchText, "mug")
	require.NoError(t, err)
	assert.Equal(t, backend.SearchText, v.Mode)
	assert.Equal(t, []string{"text-1"}, productIDs(v.Products))
	assert.Equal(t, 2, v.NextPage)

	// 다시 검색하면 커서가 처음으로 돌아간다.
	v, err = s.Fetch(ctx, backend.SearchText, "mug")
	require.NoError(t, err)
	assert.Equal(t, []string{"text-1"}, productIDs(v.Products))

	_, err = s.LoadMore(ctx)
	require.NoError(t, err)
	v, err = s.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, v.HasMore)
	assert.Equal(t, 4, v.NextPage)

	assert.Equal(t, call{backend.SearchText, "mug", 3}, calls[len(calls)-1])

	_, err = s.Fetch(ctx, "image", "mug")
	assert.Error(t, err)
}

func TestSimilarSearcher_DeleteClearsCompetitorFlag(t *testing.T) {
	ctx := context.Background()

	b := &fakeBackend{search: func(context.Context, backend.SearchMode, string, string, int) (backend.ProductPage, error) {
		return backend.ProductPage{Products: []backend.Product{{ID: "7", IsCompetitor: true}}}, nil
	}}
	app := newTestApp(t, b, "token")
	_, err := app.Product().Open(ctx, "1")
	require.NoError(t, err)

	v, err := app.Product().Similar().Fetch(ctx, backend.SearchCombined, "mug")
	require.NoError(t, err)
	assert.True(t, v.Products[0].IsCompetitor)

	require.NoError(t, app.DeleteCompetitor(ctx, "7"))
	assert.False(t, app.Product().Similar().View().Products[0].IsCompetitor)
}

func competitorIDs(cs []backend.Competitor) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}
