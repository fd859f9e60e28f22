package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
)

// Product 상품 하나의 상세 정보를 가져옵니다.
func (c *Client) Product(ctx context.Context, id string) (Product, error) {
	if err := requireID("product id", id); err != nil {
		return Product{}, err
	}

	r, err := c.get(ctx, "/product", url.Values{"id": {id}})
	if err != nil {
		return Product{}, err
	}

	p := parseProduct(unwrapData(r, "data", "product"))
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// Products 내 상품, 경쟁사보다 저렴한 상품, 비싼 상품 목록의 한 페이지를 가져옵니다.
// searchTerm은 내 상품 목록에만 적용됩니다.
func (c *Client) Products(ctx context.Context, kind ListKind, page int, searchTerm string) (ProductPage, error) {
	if page < 1 {
		page = 1
	}

	query := url.Values{"page": {strconv.Itoa(page)}}
	switch kind {
	case ListMyProducts:
		query.Set("q", searchTerm)
	case ListCheap, ListExpensive:
	default:
		return ProductPage{}, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 상품 목록입니다: '%s'", kind)
	}

	r, err := c.get(ctx, "/"+string(kind), query)
	if err != nil {
		return ProductPage{}, err
	}

	return ProductPage{
		Products: parseProducts(field(r, "products", "data")),
		Page:     page,
	}, nil
}

// Search 유사 상품을 검색합니다. 결과가 비어 있으면 더 이상 페이지가 없는 것으로 봅니다.
func (c *Client) Search(ctx context.Context, mode SearchMode, title, productID string, page int) (ProductPage, error) {
	if err := requireID("product_id", productID); err != nil {
		return ProductPage{}, err
	}
	if page < 1 {
		page = 1
	}

	var path string
	switch mode {
	case SearchCombined:
		path = "/mlt-search"
	case SearchText:
		path = "/text-search"
	default:
		return ProductPage{}, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 검색 방식입니다: '%s'", mode)
	}

	r, err := c.get(ctx, path, url.Values{
		"title":      {title},
		"product_id": {productID},
		"page":       {strconv.Itoa(page)},
	})
	if err != nil {
		return ProductPage{}, err
	}

	result := ProductPage{
		Products: parseProducts(field(r, "products", "data")),
		Page:     page,
	}
	if p := field(r, "page"); p.Exists() {
		result.Page = int(p.Int())
	}
	return result, nil
}

// BulkProducts 여러 상품의 정보를 한 번에 조회합니다. 요청한 순서와 관계없이 서버가 돌려준 순서로 반환합니다.
func (c *Client) BulkProducts(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	r, err := c.do(ctx, http.MethodPost, "/bulk_products", nil, nil, map[string]any{"product_ids": numericIDs(ids)})
	if err != nil {
		return nil, err
	}
	return parseProducts(field(r, "data", "products")), nil
}

// AddExpensive 상품을 비싼 상품 관리 목록에 추가합니다.
func (c *Client) AddExpensive(ctx context.Context, productID string) error {
	return c.expensive(ctx, http.MethodPut, productID)
}

// RemoveExpensive 상품을 비싼 상품 관리 목록에서 제거합니다.
func (c *Client) RemoveExpensive(ctx context.Context, productID string) error {
	return c.expensive(ctx, http.MethodDelete, productID)
}

func (c *Client) expensive(ctx context.Context, method, productID string) error {
	if err := requireID("product_id", productID); err != nil {
		return err
	}
	_, err := c.do(ctx, method, "/expensives", nil, nil, map[string]any{"product_id": numericIDs([]string{productID})[0]})
	return err
}
