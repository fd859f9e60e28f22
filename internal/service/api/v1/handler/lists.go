package handler

import (
	"net/http"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/dashboard"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/constants"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/handler"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/httputil"
	"github.com/darkkaiser/competitor-dashboard/internal/service/api/v1/model/request"
	"github.com/labstack/echo/v4"
)

func (h *Handler) list(c echo.Context) (*dashboard.ListPage, error) {
	page, err := h.app.List(backend.ListKind(c.Param("kind")))
	if err != nil {
		return nil, httputil.NewNotFoundError(constants.ErrMsgNotFound)
	}
	return page, nil
}

// ListInitHandler godoc
// @Summary 목록 화면 진입
// @Description 목록 화면에 들어옵니다. 이미 불러온 상태가 있으면 요청 없이 그대로(스크롤 위치 포함) 반환합니다.
// @Tags Lists
// @Produce json
// @Param kind path string true "목록 종류" Enums(my-products, cheap, expensives)
// @Success 200 {object} dashboard.PageSnapshot
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/lists/{kind} [get]
func (h *Handler) ListInitHandler(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	snap, err := page.Init(c.Request().Context())
	return h.respond(c, snap, err)
}

// ListLoadHandler godoc
// @Summary 목록 검색
// @Description 검색어로 첫 페이지를 다시 불러옵니다.
// @Tags Lists
// @Accept json
// @Produce json
// @Param kind path string true "목록 종류" Enums(my-products, cheap, expensives)
// @Param body body request.ListLoadRequest true "검색어"
// @Success 200 {object} dashboard.PageSnapshot
// @Router /api/v1/lists/{kind}/load [post]
func (h *Handler) ListLoadHandler(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	req := new(request.ListLoadRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	snap, err := page.Load(c.Request().Context(), req.SearchTerm)
	return h.respond(c, snap, err)
}

// ListMoreHandler godoc
// @Summary 목록 다음 페이지
// @Tags Lists
// @Produce json
// @Param kind path string true "목록 종류" Enums(my-products, cheap, expensives)
// @Success 200 {object} dashboard.PageSnapshot
// @Router /api/v1/lists/{kind}/more [post]
func (h *Handler) ListMoreHandler(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	snap, err := page.LoadMore(c.Request().Context())
	return h.respond(c, snap, err)
}

// ListScrollHandler godoc
// @Summary 목록 스크롤 위치 저장
// @Tags Lists
// @Accept json
// @Produce json
// @Param kind path string true "목록 종류" Enums(my-products, cheap, expensives)
// @Param body body request.ScrollRequest true "스크롤 위치"
// @Success 200 {object} dashboard.PageSnapshot
// @Router /api/v1/lists/{kind}/scroll [put]
func (h *Handler) ListScrollHandler(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	req := new(request.ScrollRequest)
	if err := handler.BindAndValidate(c, req); err != nil {
		return err
	}

	return h.respond(c, page.SetScrollPosition(req.Position), nil)
}

// ExpensiveHandler godoc
// @Summary 비싼 상품 지정/해제
// @Tags Lists
// @Produce json
// @Param id path string true "상품 ID"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/products/{id}/expensive [put]
// @Router /api/v1/products/{id}/expensive [delete]
func (h *Handler) ExpensiveHandler(c echo.Context) error {
	expensive := c.Request().Method != http.MethodDelete
	if err := h.app.SetExpensive(c.Request().Context(), c.Param("id"), expensive); err != nil {
		return toHTTPError(err)
	}
	return httputil.Success(c)
}
