package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPage_Pagination(t *testing.T) {
	ctx := context.Background()

	var failNext bool
	b := &fakeBackend{products: func(_ context.Context, kind backend.ListKind, page int, searchTerm string) (backend.ProductPage, error) {
		assert.Equal(t, backend.ListMyProducts, kind)
		assert.Equal(t, "mug", searchTerm)

		if failNext {
			failNext = false
			return backend.ProductPage{}, errors.New("connection reset")
		}
		switch page {
		case 1:
			return backend.ProductPage{Products: productsWithIDs("1", "2"), Page: 1}, nil
		case 2:
			// 앞 페이지와 겹친 상품은 한 번만 표시된다.
			return backend.ProductPage{Products: productsWithIDs("2", "3"), Page: 2}, nil
		default:
			return backend.ProductPage{Products: []backend.Product{}, Page: page}, nil
		}
	}}
	app := newTestApp(t, b, "token")
	list, _ := app.List(backend.ListMyProducts)

	snap, err := list.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsInitialized, "LoadMore before the first load does nothing")

	snap, err = list.Load(ctx, "mug")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentPage)
	assert.True(t, snap.HasMorePages)
	assert.Equal(t, "mug", snap.SearchTerm)
	assert.Len(t, snap.Products, 2)

	failNext = true
	snap, err = list.LoadMore(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, snap.CurrentPage, "페이지 번호는 성공했을 때만 증가해야 합니다")
	assert.Equal(t, StatusError, snap.State.Status)
	assert.Equal(t, MsgGenericFailure, snap.State.Error)
	assert.Len(t, snap.Products, 2)

	snap, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.CurrentPage)
	assert.Equal(t, []string{"1", "2", "3"}, productIDs(snap.Products))

	snap, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.CurrentPage)
	assert.False(t, snap.HasMorePages)

	snap, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.CurrentPage, "빈 페이지 이후에는 더 요청하지 않아야 합니다")
}

func TestListPage_LoadReplacesResults(t *testing.T) {
	ctx := context.Background()

	b := &fakeBackend{products: func(_ context.Context, _ backend.ListKind, page int, searchTerm string) (backend.ProductPage, error) {
		return backend.ProductPage{Products: productsWithIDs(fmt.Sprintf("%s-%d", searchTerm, page))}, nil
	}}
	app := newTestApp(t, b, "token")
	list, _ := app.List(backend.ListCheap)

	_, err := list.Load(ctx, "a")
	require.NoError(t, err)
	_, err = list.LoadMore(ctx)
	require.NoError(t, err)
	list.SetScrollPosition(100)

	snap, err := list.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-1"}, productIDs(snap.Products))
	assert.Equal(t, 1, snap.CurrentPage)
	assert.Zero(t, snap.ScrollPosition)
}

func TestListPage_EmptyFirstPage(t *testing.T) {
	app := newTestApp(t, &fakeBackend{}, "token")
	list, _ := app.List(backend.ListExpensive)

	snap, err := list.Init(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsInitialized)
	assert.False(t, snap.HasMorePages)
	assert.NotNil(t, snap.Products)
	assert.Empty(t, snap.Products)
}

func TestSetExpensive(t *testing.T) {
	ctx := context.Background()

	t.Run("해제하면 비싼 상품 목록에서 빠진다", func(t *testing.T) {
		var removed string
		b := &fakeBackend{
			products: func(context.Context, backend.ListKind, int, string) (backend.ProductPage, error) {
				return backend.ProductPage{Products: productsWithIDs("1", "2")}, nil
			},
			removeExpensive: func(_ context.Context, id string) error {
				removed = id
				return nil
			},
		}
		app := newTestApp(t, b, "token")
		list, _ := app.List(backend.ListExpensive)
		_, err := list.Init(ctx)
		require.NoError(t, err)

		require.NoError(t, app.SetExpensive(ctx, "1", false))
		assert.Equal(t, "1", removed)
		assert.Equal(t, []string{"2"}, productIDs(list.Snapshot().Products))
	})

	t.Run("추가하면 저렴한 상품 목록에서 빠진다", func(t *testing.T) {
		var added string
		b := &fakeBackend{
			products: func(context.Context, backend.ListKind, int, string) (backend.ProductPage, error) {
				return backend.ProductPage{Products: productsWithIDs("1", "2")}, nil
			},
			addExpensive: func(_ context.Context, id string) error {
				added = id
				return nil
			},
		}
		app := newTestApp(t, b, "token")
		list, _ := app.List(backend.ListCheap)
		_, err := list.Init(ctx)
		require.NoError(t, err)

		require.NoError(t, app.SetExpensive(ctx, "1", true))
		assert.Equal(t, "1", added)
		assert.Equal(t, []string{"2"}, productIDs(list.Snapshot().Products))
	})

	t.Run("실패하면 목록은 그대로 남는다", func(t *testing.T) {
		b := &fakeBackend{
			products: func(context.Context, backend.ListKind, int, string) (backend.ProductPage, error) {
				return backend.ProductPage{Products: productsWithIDs("1", "2")}, nil
			},
			addExpensive: func(context.Context, string) error { return errors.New("boom") },
		}
		app := newTestApp(t, b, "token")
		list, _ := app.List(backend.ListCheap)
		_, err := list.Init(ctx)
		require.NoError(t, err)

		require.Error(t, app.SetExpensive(ctx, "1", true))
		assert.Equal(t, []string{"1", "2"}, productIDs(list.Snapshot().Products))
	})
}

func productIDs(ps []backend.Product) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
