package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkkaiser/competitor-dashboard/internal/backend/fetcher"
	"github.com/darkkaiser/competitor-dashboard/internal/config"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestClient(t *testing.T, mux *http.ServeMux, token string) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewFromConfig(config.BackendConfig{
		BaseURL:          srv.URL + "/webhook",
		Timeout:          5 * time.Second,
		MaxResponseBytes: 1 << 20,
	}, config.HTTPRetryConfig{RetryDelay: time.Second}, fetcher.TokenSourceFunc(func() string { return token }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func competitorsMux(inventory int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("product_id") != "42" {
			writeJSON(w, http.StatusNotFound, `{"message":"not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"competitors":[{"op_product":7,"op_vendor":"shopA"}]}`)
	})
	mux.HandleFunc("POST /webhook/bulk_products", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductIDs []int `json:"product_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.ProductIDs) != 1 || req.ProductIDs[0] != 7 {
			writeJSON(w, http.StatusBadRequest, `{"message":"bad ids"}`)
			return
		}
		body, _ := json.Marshal(map[string]any{
			"data": []map[string]any{{
				"id":        7,
				"title":     "گلدان سفالی",
				"price":     90000,
				"photo":     map[string]any{"md": "https://img.test/7.jpg"},
				"vendor":    map[string]any{"identifier": "shopA", "title": "فروشگاه A"},
				"status":    map[string]any{"value": 2976},
				"inventory": inventory,
			}},
		})
		writeJSON(w, http.StatusOK, string(body))
	})
	return mux
}

func TestClient_Competitors_ActiveWithInventory(t *testing.T) {
	c := newTestClient(t, competitorsMux(5), "token")

	page, err := c.Competitors(context.Background(), "42", 1, 12)

	require.NoError(t, err)
	require.Len(t, page.Competitors, 1)
	got := page.Competitors[0]
	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "shopA", got.VendorIdentifier)
	assert.Equal(t, int64(90000), got.Price)
	assert.Equal(t, "https://img.test/7.jpg", got.Photo)
	assert.Equal(t, "https://basalam.com/shopA/product/7", got.ProductURL)
	assert.False(t, page.HasMore)
}

func TestClient_Competitors_OutOfStockIsExcluded(t *testing.T) {
	c := newTestClient(t, competitorsMux(0), "token")

	page, err := c.Competitors(context.Background(), "42", 1, 12)

	require.NoError(t, err)
	assert.Empty(t, page.Competitors)
}

func TestClient_Competitors_PageBeyondEnd(t *testing.T) {
	c := newTestClient(t, competitorsMux(5), "token")

	page, err := c.Competitors(context.Background(), "42", 2, 12)

	require.NoError(t, err)
	assert.Empty(t, page.Competitors)
	assert.False(t, page.HasMore)
}

func TestClient_CompetitorsPage_UsesGivenRefs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		t.Error("연결 정보를 다시 조회하면 안 됩니다")
		writeJSON(w, http.StatusOK, `{"competitors":[]}`)
	})
	mux.HandleFunc("POST /webhook/bulk_products", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductIDs []int `json:"product_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{7}, req.ProductIDs)
		writeJSON(w, http.StatusOK, `{"data":[{"id":7,"price":90000,"vendor":{"identifier":"shopA"},"status":{"value":2976},"inventory":3}]}`)
	})
	c := newTestClient(t, mux, "token")

	refs := []CompetitorRef{{OpProduct: "3", OpVendor: "shopX"}, {OpProduct: "7", OpVendor: "shopA"}}

	page, err := c.CompetitorsPage(context.Background(), refs, 2, 1)

	require.NoError(t, err)
	require.Len(t, page.Competitors, 1)
	assert.Equal(t, "7", page.Competitors[0].ID)
	assert.Equal(t, 2, page.Page)
	assert.False(t, page.HasMore)
}

func TestClient_Overview_CaseTolerant(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/competitors/overview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"competitors_count":3,"average_price":95000,"min_price":90000}`)
	})
	mux.HandleFunc("GET /webhook/competitors/overview/light", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"competitorsCount":2,"averagePrice":"97000","minPrice":94000}}`)
	})
	c := newTestClient(t, mux, "token")

	full, err := c.Overview(context.Background(), "42", false)
	require.NoError(t, err)
	assert.Equal(t, CompetitorsOverview{CompetitorsCount: 3, AveragePrice: 95000, MinPrice: 90000}, full)

	light, err := c.Overview(context.Background(), "42", true)
	require.NoError(t, err)
	assert.Equal(t, CompetitorsOverview{CompetitorsCount: 2, AveragePrice: 97000, MinPrice: 94000}, light)
}

func TestClient_Overview_MalformedDefaultsToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/competitors/overview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	c := newTestClient(t, mux, "token")

	overview, err := c.Overview(context.Background(), "42", false)

	require.NoError(t, err)
	assert.Zero(t, overview)
}

func TestClient_Product(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/product", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, `{
			"id": "42",
			"name": "گلدان",
			"price": 100000,
			"photos": [{"md": "https://img.test/a.jpg"}, {"md": "https://img.test/b.jpg"}],
			"vendor": {"identifier": "myshop", "name": "فروشگاه من"},
			"description": "<p>سطر اول</p><p>سطر دوم</p>"
		}`)
	})
	c := newTestClient(t, mux, "token")

	p, err := c.Product(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "گلدان", p.Title)
	assert.Equal(t, int64(100000), p.Price)
	assert.Equal(t, []string{"https://img.test/a.jpg", "https://img.test/b.jpg"}, p.Photos)
	assert.Equal(t, "https://basalam.com/myshop/product/42", p.BasalamURL)
	assert.Equal(t, "سطر اول\nسطر دوم", p.Description)
}

func TestClient_UnauthorizedAndBusinessErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/product", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"invalid token"}`)
	})
	mux.HandleFunc("POST /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"این محصول قبلا اضافه شده است"}`)
	})
	mux.HandleFunc("PUT /webhook/expensives", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":false,"message":"محصول یافت نشد"}`)
	})
	c := newTestClient(t, mux, "token")

	_, err := c.Product(context.Background(), "1")
	assert.True(t, apperrors.Is(err, apperrors.Unauthorized))

	err = c.AddCompetitor(context.Background(), "42", "7", "shopA")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "این محصول قبلا اضافه شده است", msg)

	err = c.AddExpensive(context.Background(), "42")
	assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	msg, _ = apperrors.MessageOf(err)
	assert.Equal(t, "محصول یافت نشد", msg)
}

func TestClient_CompetitorMutations(t *testing.T) {
	var added map[string]any
	var deletedQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&added)
		writeJSON(w, http.StatusOK, `{"status":true}`)
	})
	mux.HandleFunc("DELETE /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		deletedQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux, "token")

	require.NoError(t, c.AddCompetitor(context.Background(), "42", "7", "shopA"))
	assert.Equal(t, map[string]any{"self_product": float64(42), "op_product": float64(7), "op_vendor": "shopA"}, added)

	require.NoError(t, c.DeleteCompetitor(context.Background(), "42", "7"))
	assert.Equal(t, "op_product=7&product_id=42", deletedQuery)

	assert.True(t, apperrors.Is(c.AddCompetitor(context.Background(), "", "7", "shopA"), apperrors.InvalidInput))
}

func TestClient_ProductsAndSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/my-products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "گلدان", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, `{"products":[{"id":1,"title":"a","price":10}]}`)
	})
	mux.HandleFunc("GET /webhook/cheap", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	mux.HandleFunc("GET /webhook/mlt-search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("product_id"))
		writeJSON(w, http.StatusOK, `{"products":[{"id":7,"title":"b","is_competitor":true}],"page":3}`)
	})
	mux.HandleFunc("GET /webhook/text-search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"products":[]}`)
	})
	c := newTestClient(t, mux, "token")

	page, err := c.Products(context.Background(), ListMyProducts, 2, "گلدان")
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "1", page.Products[0].ID)

	page, err = c.Products(context.Background(), ListCheap, 1, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)

	_, err = c.Products(context.Background(), ListKind("unknown"), 1, "")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	page, err = c.Search(context.Background(), SearchCombined, "گلدان", "42", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	require.Len(t, page.Products, 1)
	assert.True(t, page.Products[0].IsCompetitor)

	page, err = c.Search(context.Background(), SearchText, "گلدان", "42", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestClient_AuthFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			writeJSON(w, http.StatusOK, `{"status":false,"message":"رمز عبور اشتباه است"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":true,"token":"tkn"}`)
	})
	mux.HandleFunc("GET /webhook/auth/start", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"redirect_uri":"https://sso.test/authorize"}`)
	})
	mux.HandleFunc("POST /webhook/auth/exchange-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"temp","has-password":false}`)
	})
	mux.HandleFunc("POST /webhook/password", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer temp" {
			writeJSON(w, http.StatusUnauthorized, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"username":"vendor1","password":"generated"}`)
	})
	c := newTestClient(t, mux, "")

	res, err := c.Login(context.Background(), "vendor1", "pw")
	require.NoError(t, err)
	assert.Equal(t, LoginResult{Status: true, Token: "tkn"}, res)

	_, err = c.Login(context.Background(), "vendor1", "wrong")
	msg, _ := apperrors.MessageOf(err)
	assert.Equal(t, "رمز عبور اشتباه است", msg)

	redirect, err := c.AuthStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://sso.test/authorize", redirect)

	ex, err := c.ExchangeToken(context.Background(), "code", "state")
	require.NoError(t, err)
	assert.Equal(t, ExchangeResult{Token: "temp", HasPassword: false}, ex)

	creds, err := c.SetPassword(context.Background(), "temp", "new-password")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "vendor1", Password: "generated"}, creds)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(fetcher.NewHTTPFetcher(), "not a url")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	_, err = New(nil, "https://api.test")
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/product", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{}`)
	})
	mux.HandleFunc("DELETE /webhook/competitors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"ارتباط یافت نشد"}`)
	})
	c := newTestClient(t, mux, "token")

	_, err := c.Product(context.Background(), "1")
	require.Error(t, err)
	_, ok := UserMessage(err)
	assert.False(t, ok)

	err = c.DeleteCompetitor(context.Background(), "42", "7")
	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "ارتباط یافت نشد", msg)

	msg, ok = UserMessage(newBusinessError(apperrors.ExecutionFailed, "x"))
	assert.True(t, ok)
	assert.Equal(t, "x", msg)
}
