package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	apperrors "github.com/darkkaiser/competitor-dashboard/internal/pkg/errors"
	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
)

// SimilarView 유사 상품 검색 영역의 상태. 현재 선택된 검색 방식의 결과만 담습니다.
type SimilarView struct {
	Mode     backend.SearchMode `json:"mode"`
	Title    string             `json:"title"`
	Products []backend.Product  `json:"products"`
	NextPage int                `json:"nextPage"`
	HasMore  bool               `json:"hasMore"`
	State    SectionState       `json:"state"`
}

// searchResult 검색 방식별 결과와 다음 페이지 번호(커서)
type searchResult struct {
	products []backend.Product
	nextPage int
	hasMore  bool
	sec      section
}

func newSearchResult() *searchResult {
	return &searchResult{products: []backend.Product{}, nextPage: 1, sec: newSection()}
}

// SimilarSearcher 내 상품과 비슷한 상품을 검색합니다.
//
// 검색 방식(combined, text)마다 커서와 결과를 따로 가지며, 검색 방식을 바꾸면 이전 결과는 모두 지워집니다.
// 경쟁 상품으로 추가하거나 삭제한 결과는 overlay에 기록되어 응답의 IsCompetitor보다 우선합니다.
type SimilarSearcher struct {
	app *App

	mu      sync.Mutex
	id      string
	mode    backend.SearchMode
	title   string
	results map[backend.SearchMode]*searchResult
	overlay map[string]bool
}

func newSimilarSearcher(app *App) *SimilarSearcher {
	s := &SimilarSearcher{app: app}
	s.resetLocked("")
	return s
}

func (s *SimilarSearcher) View() SimilarView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

func (s *SimilarSearcher) viewLocked() SimilarView {
	r := s.results[s.mode]

	products := make([]backend.Product, len(r.products))
	for i, p := range r.products {
		if v, ok := s.overlay[p.ID]; ok {
			p.IsCompetitor = v
		}
		products[i] = p
	}

	return SimilarView{
		Mode:     s.mode,
		Title:    s.title,
		Products: products,
		NextPage: r.nextPage,
		HasMore:  r.hasMore,
		State:    r.sec.state,
	}
}

// Fetch 검색 방식과 제목으로 첫 페이지를 검색합니다. 기존 결과는 응답으로 대체되고 커서는 처음으로 돌아갑니다.
// 제목이 비어 있으면 내 상품의 제목으로 검색합니다.
func (s *SimilarSearcher) Fetch(ctx context.Context, mode backend.SearchMode, title string) (SimilarView, error) {
	if !mode.Valid() {
		return s.View(), newUserError(apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 검색 방식입니다: '%s'", mode), MsgGenericFailure)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		if v := s.app.product.detail.View(); v.Product != nil {
			title = v.Product.Title
		}
	}

	s.mu.Lock()
	id := s.id
	if id == "" {
		s.mu.Unlock()
		return SimilarView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	if mode != s.mode {
		for m := range s.results {
			s.results[m].sec.reset()
			s.results[m] = newSearchResult()
		}
		s.mode = mode
	}
	s.title = title

	r := s.results[mode]
	gen := r.sec.begin()
	r.products = []backend.Product{}
	r.nextPage = 1
	r.hasMore = false
	s.mu.Unlock()

	return s.fetch(ctx, mode, r, gen, id, title, 1)
}

// LoadMore 현재 검색 방식의 다음 페이지를 검색해 뒤에 붙입니다.
func (s *SimilarSearcher) LoadMore(ctx context.Context) (SimilarView, error) {
	s.mu.Lock()
	id := s.id
	if id == "" {
		s.mu.Unlock()
		return SimilarView{}, newUserError(ErrNoProduct, MsgGenericFailure)
	}
	mode := s.mode
	r := s.results[mode]
	if !r.hasMore || r.sec.state.Status == StatusLoading {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}
	gen := r.sec.begin()
	page := r.nextPage
	title := s.title
	s.mu.Unlock()

	return s.fetch(ctx, mode, r, gen, id, title, page)
}

func (s *SimilarSearcher) fetch(ctx context.Context, mode backend.SearchMode, r *searchResult, gen uint64, id, title string, page int) (SimilarView, error) {
	result, err := s.app.backend.Search(ctx, mode, title, id, page)

	s.mu.Lock()
	// 검색 방식이 바뀌었거나 더 최근 요청이 있으면 버린다.
	if s.results[mode] != r || !r.sec.current(gen) {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}
	if err != nil {
		r.sec.fail(err, MsgGenericFailure)
		v := s.viewLocked()
		s.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"product_id": id,
			"mode":       mode,
			"page":       page,
			"error":      err.Error(),
		}).Warn("유사 상품 검색 실패")
		return v, newUserError(s.app.guard(ctx, err), MsgGenericFailure)
	}

	r.products = appendUniqueProducts(r.products, result.Products)
	r.nextPage = page + 1
	r.hasMore = len(result.Products) > 0
	r.sec.succeed()
	v := s.viewLocked()
	s.mu.Unlock()

	return v, nil
}

// setCompetitor 검색 결과의 경쟁 상품 여부를 바꿉니다.
func (s *SimilarSearcher) setCompetitor(opID string, isCompetitor bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlay[opID] = isCompetitor
}

func (s *SimilarSearcher) reset(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.results {
		r.sec.reset()
	}
	s.resetLocked(productID)
}

func (s *SimilarSearcher) resetLocked(productID string) {
	s.id = productID
	s.mode = backend.SearchCombined
	s.title = ""
	s.results = map[backend.SearchMode]*searchResult{
		backend.SearchCombined: newSearchResult(),
		backend.SearchText:     newSearchResult(),
	}
	s.overlay = make(map[string]bool)
}

func (s *SimilarSearcher) overlayOf(opID string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.overlay[opID]
	return v, ok
}
