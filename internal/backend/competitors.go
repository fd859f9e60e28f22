package backend

import (
	"context"
	"net/http"
	"net/url"

	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/darkkaiser/competitor-dashboard/pkg/maputil"
	"github.com/tidwall/gjson"
)

// CompetitorRefs 내 상품에 연결된 경쟁 상품의 ID와 판매자 목록을 가져옵니다.
func (c *Client) CompetitorRefs(ctx context.Context, productID string) ([]CompetitorRef, error) {
	if err := requireID("product_id", productID); err != nil {
		return nil, err
	}

	r, err := c.get(ctx, "/competitors", url.Values{"product_id": {productID}})
	if err != nil {
		return nil, err
	}

	refs := []CompetitorRef{}
	field(r, "competitors", "data").ForEach(func(_, v gjson.Result) bool {
		ref := CompetitorRef{
			OpProduct: idString(field(v, "op_product")),
			OpVendor:  idString(field(v, "op_vendor")),
		}
		if ref.OpProduct != "" {
			refs = append(refs, ref)
		}
		return true
	})
	return refs, nil
}

// Competitors 경쟁 상품 연결 정보를 새로 조회한 뒤 그중 한 페이지를 가져옵니다.
func (c *Client) Competitors(ctx context.Context, productID string, page, pageSize int) (CompetitorPage, error) {
	refs, err := c.CompetitorRefs(ctx, productID)
	if err != nil {
		return CompetitorPage{}, err
	}
	return c.CompetitorsPage(ctx, refs, page, pageSize)
}

// CompetitorsPage 이미 조회한 연결 정보(refs)를 pageSize 단위로 나누어 page 구간의 상품만 일괄 조회합니다.
//
// 판매 중(status.value=2976)이고 재고가 있는 상품만 포함합니다. 구간이 비어 있으면 HasMore는 false입니다.
// 같은 refs로 페이지를 넘기면 중간에 연결이 삭제되더라도 구간이 밀리지 않습니다.
func (c *Client) CompetitorsPage(ctx context.Context, refs []CompetitorRef, page, pageSize int) (CompetitorPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return CompetitorPage{}, apperrors.New(apperrors.InvalidInput, "페이지 크기는 1 이상이어야 합니다")
	}

	result := CompetitorPage{Competitors: []Competitor{}, Page: page}

	start := (page - 1) * pageSize
	if start >= len(refs) {
		return result, nil
	}
	end := min(start+pageSize, len(refs))
	result.HasMore = end < len(refs)

	ids := make([]string, 0, end-start)
	for _, ref := range refs[start:end] {
		ids = append(ids, ref.OpProduct)
	}

	products, err := c.BulkProducts(ctx, ids)
	if err != nil {
		return CompetitorPage{}, err
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, ref := range refs[start:end] {
		p, ok := byID[ref.OpProduct]
		if !ok || !isActiveCompetitor(p) {
			continue
		}
		if p.VendorIdentifier == "" {
			p.VendorIdentifier = ref.OpVendor
		}
		result.Competitors = append(result.Competitors, toCompetitor(p))
	}

	if skipped := len(ids) - len(result.Competitors); skipped > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"page":    page,
			"skipped": skipped,
		}).Debug("판매 중이 아니거나 재고가 없는 경쟁 상품을 목록에서 제외함")
	}

	return result, nil
}

// Overview 경쟁 상품 요약 정보를 가져옵니다.
// light가 true이면 변경 직후 갱신용 경량 엔드포인트를 사용합니다. 두 응답 모두 snake_case와 camelCase 필드를 허용합니다.
func (c *Client) Overview(ctx context.Context, productID string, light bool) (CompetitorsOverview, error) {
	if err := requireID("product_id", productID); err != nil {
		return CompetitorsOverview{}, err
	}

	path := "/competitors/overview"
	if light {
		path = "/competitors/overview/light"
	}

	r, err := c.get(ctx, path, url.Values{"product_id": {productID}})
	if err != nil {
		return CompetitorsOverview{}, err
	}

	r = unwrapData(r, "data", "overview")
	if r.IsArray() {
		r = r.Get("0")
	}

	m, ok := r.Value().(map[string]any)
	if !ok {
		return CompetitorsOverview{}, nil
	}

	overview, err := maputil.Decode[CompetitorsOverview](m, maputil.WithCaseTolerantKeys())
	if err != nil {
		return CompetitorsOverview{}, apperrors.Wrap(err, apperrors.ParsingFailed, "경쟁 상품 요약 정보를 해석하지 못했습니다")
	}
	return *overview, nil
}

// AddCompetitor 내 상품(selfID)에 경쟁 상품(opID)을 연결합니다.
func (c *Client) AddCompetitor(ctx context.Context, selfID, opID, vendor string) error {
	if err := requireID("self_product", selfID); err != nil {
		return err
	}
	if err := requireID("op_product", opID); err != nil {
		return err
	}

	ids := numericIDs([]string{selfID, opID})
	_, err := c.do(ctx, http.MethodPost, "/competitors", nil, nil, map[string]any{
		"self_product": ids[0],
		"op_product":   ids[1],
		"op_vendor":    vendor,
	})
	return err
}

// DeleteCompetitor 내 상품(selfID)과 경쟁 상품(opID)의 연결을 해제합니다.
func (c *Client) DeleteCompetitor(ctx context.Context, selfID, opID string) error {
	if err := requireID("product_id", selfID); err != nil {
		return err
	}
	if err := requireID("op_product", opID); err != nil {
		return err
	}

	_, err := c.do(ctx, http.MethodDelete, "/competitors", url.Values{
		"product_id": {selfID},
		"op_product": {opID},
	}, nil, nil)
	return err
}
