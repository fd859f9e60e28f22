package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/darkkaiser/competitor-dashboard/internal/session"
	"github.com/stretchr/testify/require"
)

// fakeBackend 설정된 함수만 호출하며, 설정되지 않은 메서드는 빈 값을 반환합니다.
type fakeBackend struct {
	login            func(ctx context.Context, username, password string) (backend.LoginResult, error)
	authStart        func(ctx context.Context) (string, error)
	exchangeToken    func(ctx context.Context, code, state string) (backend.ExchangeResult, error)
	setPassword      func(ctx context.Context, tempToken, password string) (backend.Credentials, error)
	product          func(ctx context.Context, id string) (backend.Product, error)
	products         func(ctx context.Context, kind backend.ListKind, page int, searchTerm string) (backend.ProductPage, error)
	search           func(ctx context.Context, mode backend.SearchMode, title, productID string, page int) (backend.ProductPage, error)
	competitorRefs   func(ctx context.Context, productID string) ([]backend.CompetitorRef, error)
	competitorsPage  func(ctx context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error)
	overview         func(ctx context.Context, productID string, light bool) (backend.CompetitorsOverview, error)
	addCompetitor    func(ctx context.Context, selfID, opID, vendor string) error
	deleteCompetitor func(ctx context.Context, selfID, opID string) error
	addExpensive     func(ctx context.Context, productID string) error
	removeExpensive  func(ctx context.Context, productID string) error
}

var _ Backend = (*fakeBackend)(nil)

func (f *fakeBackend) Login(ctx context.Context, username, password string) (backend.LoginResult, error) {
	if f.login == nil {
		return backend.LoginResult{Status: true, Token: "token"}, nil
	}
	return f.login(ctx, username, password)
}

func (f *fakeBackend) AuthStart(ctx context.Context) (string, error) {
	if f.authStart == nil {
		return "", nil
	}
	return f.authStart(ctx)
}

func (f *fakeBackend) ExchangeToken(ctx context.Context, code, state string) (backend.ExchangeResult, error) {
	if f.exchangeToken == nil {
		return backend.ExchangeResult{}, nil
	}
	return f.exchangeToken(ctx, code, state)
}

func (f *fakeBackend) SetPassword(ctx context.Context, tempToken, password string) (backend.Credentials, error) {
	if f.setPassword == nil {
		return backend.Credentials{}, nil
	}
	return f.setPassword(ctx, tempToken, password)
}

func (f *fakeBackend) Product(ctx context.Context, id string) (backend.Product, error) {
	if f.product == nil {
		return backend.Product{ID: id}, nil
	}
	return f.product(ctx, id)
}

func (f *fakeBackend) Products(ctx context.Context, kind backend.ListKind, page int, searchTerm string) (backend.ProductPage, error) {
	if f.products == nil {
		return backend.ProductPage{Products: []backend.Product{}, Page: page}, nil
	}
	return f.products(ctx, kind, page, searchTerm)
}

func (f *fakeBackend) Search(ctx context.Context, mode backend.SearchMode, title, productID string, page int) (backend.ProductPage, error) {
	if f.search == nil {
		return backend.ProductPage{Products: []backend.Product{}, Page: page}, nil
	}
	return f.search(ctx, mode, title, productID, page)
}

func (f *fakeBackend) CompetitorRefs(ctx context.Context, productID string) ([]backend.CompetitorRef, error) {
	if f.competitorRefs == nil {
		return []backend.CompetitorRef{}, nil
	}
	return f.competitorRefs(ctx, productID)
}

func (f *fakeBackend) CompetitorsPage(ctx context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error) {
	if f.competitorsPage == nil {
		return pageOfRefs(refs, page, pageSize), nil
	}
	return f.competitorsPage(ctx, refs, page, pageSize)
}

// pageOfRefs 모든 연결 정보가 판매 중인 상품이라고 보고 page 구간을 경쟁 상품으로 변환합니다.
func pageOfRefs(refs []backend.CompetitorRef, page, pageSize int) backend.CompetitorPage {
	result := backend.CompetitorPage{Competitors: []backend.Competitor{}, Page: page}

	start := (page - 1) * pageSize
	if start >= len(refs) {
		return result
	}
	end := min(start+pageSize, len(refs))
	for _, ref := range refs[start:end] {
		result.Competitors = append(result.Competitors, backend.Competitor{ID: ref.OpProduct, VendorIdentifier: ref.OpVendor})
	}
	result.HasMore = end < len(refs)

	return result
}

func refsWithIDs(ids ...string) []backend.CompetitorRef {
	out := make([]backend.CompetitorRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, backend.CompetitorRef{OpProduct: id})
	}
	return out
}

func (f *fakeBackend) Overview(ctx context.Context, productID string, light bool) (backend.CompetitorsOverview, error) {
	if f.overview == nil {
		return backend.CompetitorsOverview{}, nil
	}
	return f.overview(ctx, productID, light)
}

func (f *fakeBackend) AddCompetitor(ctx context.Context, selfID, opID, vendor string) error {
	if f.addCompetitor == nil {
		return nil
	}
	return f.addCompetitor(ctx, selfID, opID, vendor)
}

func (f *fakeBackend) DeleteCompetitor(ctx context.Context, selfID, opID string) error {
	if f.deleteCompetitor == nil {
		return nil
	}
	return f.deleteCompetitor(ctx, selfID, opID)
}

func (f *fakeBackend) AddExpensive(ctx context.Context, productID string) error {
	if f.addExpensive == nil {
		return nil
	}
	return f.addExpensive(ctx, productID)
}

func (f *fakeBackend) RemoveExpensive(ctx context.Context, productID string) error {
	if f.removeExpensive == nil {
		return nil
	}
	return f.removeExpensive(ctx, productID)
}

var errUnauthorized = apperrors.New(apperrors.Unauthorized, "HTTP 401 Unauthorized")

// newTestApp 메모리 세션을 사용하는 App을 생성합니다. token이 비어 있지 않으면 로그인된 상태로 시작합니다.
func newTestApp(t *testing.T, b Backend, token string, opts ...func(*Options)) *App {
	t.Helper()

	s := session.New(session.NewMemoryStore(), nil)
	if token != "" {
		require.NoError(t, s.SetToken(context.Background(), token))
	}

	o := Options{
		OverviewRefreshDelay: 10 * time.Millisecond,
		AddQueueCapacity:     16,
		CompetitorsPageSize:  2,
	}
	for _, opt := range opts {
		opt(&o)
	}

	app := NewApp(b, s, o)
	t.Cleanup(app.Close)

	return app
}

func productsWithIDs(ids ...string) []backend.Product {
	out := make([]backend.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, backend.Product{ID: id, Title: "product " + id})
	}
	return out
}
