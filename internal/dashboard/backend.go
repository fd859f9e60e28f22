package dashboard

import (
	"context"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
)

// Backend 대시보드가 사용하는 백엔드 API입니다. *backend.Client가 구현합니다.
type Backend interface {
	Login(ctx context.Context, username, password string) (backend.LoginResult, error)
	AuthStart(ctx context.Context) (string, error)
	ExchangeToken(ctx context.Context, code, state string) (backend.ExchangeResult, error)
	SetPassword(ctx context.Context, tempToken, password string) (backend.Credentials, error)

	Product(ctx context.Context, id string) (backend.Product, error)
	Products(ctx context.Context, kind backend.ListKind, page int, searchTerm string) (backend.ProductPage, error)
	Search(ctx context.Context, mode backend.SearchMode, title, productID string, page int) (backend.ProductPage, error)

	CompetitorRefs(ctx context.Context, productID string) ([]backend.CompetitorRef, error)
	CompetitorsPage(ctx context.Context, refs []backend.CompetitorRef, page, pageSize int) (backend.CompetitorPage, error)
	Overview(ctx context.Context, productID string, light bool) (backend.CompetitorsOverview, error)
	AddCompetitor(ctx context.Context, selfID, opID, vendor string) error
	DeleteCompetitor(ctx context.Context, selfID, opID string) error

	AddExpensive(ctx context.Context, productID string) error
	RemoveExpensive(ctx context.Context, productID string) error
}

var _ Backend = (*backend.Client)(nil)
