package handler

import (
	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/echo/v4"
)

// ProductOpenHandler godoc
// @Summary 상품 상세 화면 열기
// @Description 상세 정보, 경쟁 상품 요약, 경쟁 상품 첫 페이지를 동시에 불러옵니다. 영역별 실패는 각 영역의 state에 담기며, 어느 영역에서든 인증이 만료되면 401을 반환합니다.
// @Tags Product
// @Produce json
// @Param id path string true "상품 ID"
// @Success 200 {object} dashboard.ProductView
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *Handler) ProductOpenHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return httputil.NewBadRequestError("شناسه محصول الزامی است")
	}

	view, err := h.app.Product().Open(c.Request().Context(), id)
	return h.respond(c, view, err)
}

// ProductViewHandler godoc
// @Summary 열려 있는 상품 상세 화면의 현재 상태
// @Tags Product
// @Produce json
// @Success 200 {object} dashboard.ProductView
// @Router /api/v1/product [get]
func (h *Handler) ProductViewHandler(c echo.Context) error {
	return h.respond(c, h.app.Product().View(), nil)
}

// DetailReloadHandler godoc
// @Summary 상품 상세 정보 다시 불러오기
// @Tags Product
// @Produce json
// @Success 200 {object} dashboard.DetailView
// @Router /api/v1/product/detail [post]
func (h *Handler) DetailReloadHandler(c echo.Context) error {
	view, err := h.app.Product().Detail().Load(c.Request().Context())
	return h.respond(c, view, err)
}

// OverviewReloadHandler godoc
// @Summary 경쟁 상품 요약 다시 불러오기
// @Tags Product
// @Produce json
// @Param light query bool false "가벼운 요약 사용 여부"
// @Success 200 {object} dashboard.OverviewView
// @Router /api/v1/product/overview [post]
func (h *Handler) OverviewReloadHandler(c echo.Context) error {
	overview := h.app.Product().Overview()
	if c.QueryParam("light") == "true" {
		view, err := overview.RefreshLight(c.Request().Context())
		return h.respond(c, view, err)
	}
	view, err := overview.LoadFull(c.Request().Context())
	return h.respond(c, view, err)
}

// CompetitorsRefreshHandler godoc
// @Summary 경쟁 상품 목록 새로고침
// @Tags Competitors
// @Produce json
// @Success 200 {object} dashboard.CompetitorsView
// @Router /api/v1/product/competitors/refresh [post]
func (h *Handler) CompetitorsRefreshHandler(c echo.Context) error {
	view, err := h.app.Product().Competitors().Refresh(c.Request().Context())
	return h.respond(c, view, err)
}

// CompetitorsMoreHandler godoc
// @Summary 경쟁 상품 목록 다음 페이지
// @Tags Competitors
// @Produce json
// @Success 200 {object} dashboard.CompetitorsView
// @Router /api/v1/product/competitors/more [post]
func (h *Handler) CompetitorsMoreHandler(c echo.Context) error {
	view, err := h.app.Product().Competitors().LoadMore(c.Request().Context())
	return h.respond(c, view, err)
}

// AddCompetitorHandler godoc
// @Summary 경쟁 상품 추가
// @Description 추가 요청은 서버에서 한 번에 하나씩 요청 순서대로 처리됩니다.
// @Tags Competitors
// @Accept json
// @Produce json
// @Param body body request.AddCompetitorRequest true "추가할 상품"
// @Success 200 {object} dashboard.SimilarView
// @Failure 422 {object} response.ErrorResponse "백엔드가 거절한 요청"
// @Router /api/v1/product/competitors [post]
func (h *Handler) AddCompetitorHandler(c echo.Context) error {
	req := new(request.AddCompetitorRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	if err := h.app.AddCompetitor(c.Request().Context(), req.OpProduct, req.OpVendor); err != nil {
		return toHTTPError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"op_product": req.OpProduct,
		"op_vendor":  req.OpVendor,
	}).Debug("경쟁 상품 추가 요청 처리 완료")

	return h.respond(c, h.app.Product().Similar().View(), nil)
}

// DeleteCompetitorHandler godoc
// @Summary 경쟁 상품 삭제
// @Tags Competitors
// @Produce json
// @Param opID path string true "경쟁 상품 ID"
// @Success 200 {object} dashboard.CompetitorsView
// @Router /api/v1/product/competitors/{opID} [delete]
func (h *Handler) DeleteCompetitorHandler(c echo.Context) error {
	if err := h.app.DeleteCompetitor(c.Request().Context(), c.Param("opID")); err != nil {
		return toHTTPError(err)
	}
	return h.respond(c, h.app.Product().Competitors().View(), nil)
}

// SimilarSearchHandler godoc
// @Summary 유사 상품 검색
// @Description 검색 방식(combined, text)을 바꾸면 이전 결과는 지워집니다.
// @Tags Similar
// @Accept json
// @Produce json
// @Param body body request.SimilarSearchRequest true "검색 조건"
// @Success 200 {object} dashboard.SimilarView
// @Router /api/v1/product/similar [post]
func (h *Handler) SimilarSearchHandler(c echo.Context) error {
	req := new(request.SimilarSearchRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	view, err := h.app.Product().Similar().Fetch(c.Request().Context(), backend.SearchMode(req.Mode), req.Title)
	return h.respond(c, view, err)
}

// SimilarMoreHandler godoc
// @Summary 유사 상품 다음 페이지
// @Tags Similar
// @Produce json
// @Success 200 {object} dashboard.SimilarView
// @Router /api/v1/product/similar/more [post]
func (h *Handler) SimilarMoreHandler(c echo.Context) error {
	view, err := h.app.Product().Similar().LoadMore(c.Request().Context())
	return h.respond(c, view, err)
}
