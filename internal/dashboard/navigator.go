package dashboard

import (
	"strings"
	"sync"
)

// RouteName 화면 이름
type RouteName string

const (
	RouteLogin         RouteName = "login"
	RouteSetPassword   RouteName = "set-password"
	RouteMyProducts    RouteName = "my-products"
	RouteCheap         RouteName = "cheap"
	RouteExpensive     RouteName = "expensives"
	RouteProductDetail RouteName = "product"
)

// Route 현재 화면. 상품 상세 화면만 ProductID를 가집니다.
type Route struct {
	Name      RouteName `json:"name"`
	ProductID string    `json:"productId,omitempty"`
}

// Path 화면 경로. 로그인 후 돌아갈 위치(from)로 저장됩니다.
func (r Route) Path() string {
	if r.Name == RouteProductDetail {
		return "/product/" + r.ProductID
	}
	return "/" + string(r.Name)
}

// topLevel 목록 화면이면 true. 상품 상세는 목록에서 들어가는 하위 화면이므로 목록 상태를 유지합니다.
func (r Route) topLevel() bool {
	switch r.Name {
	case RouteMyProducts, RouteCheap, RouteExpensive:
		return true
	}
	return false
}

// ParseRoute Path의 역변환입니다.
func ParseRoute(path string) (Route, bool) {
	path = strings.Trim(path, "/")
	if id, ok := strings.CutPrefix(path, "product/"); ok {
		if id == "" || strings.Contains(id, "/") {
			return Route{}, false
		}
		return Route{Name: RouteProductDetail, ProductID: id}, true
	}

	switch name := RouteName(path); name {
	case RouteLogin, RouteSetPassword, RouteMyProducts, RouteCheap, RouteExpensive:
		return Route{Name: name}, true
	}
	return Route{}, false
}

// Navigator 현재 화면과 화면 전환 이벤트를 관리합니다.
type Navigator struct {
	mu        sync.Mutex
	current   Route
	lastTop   RouteName
	listeners []func(from, to Route)
}

func NewNavigator(initial Route) *Navigator {
	n := &Navigator{current: initial}
	if initial.topLevel() {
		n.lastTop = initial.Name
	}
	return n
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.current
}

// OnChange 화면이 바뀔 때 호출될 함수를 등록합니다. 함수는 Navigate를 호출한 고루틴에서 실행됩니다.
func (n *Navigator) OnChange(fn func(from, to Route)) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.listeners = append(n.listeners, fn)
}

func (n *Navigator) Navigate(to Route) {
	n.mu.Lock()
	from := n.current
	n.current = to
	if to.topLevel() {
		n.lastTop = to.Name
	}
	listeners := append([]func(from, to Route){}, n.listeners...)
	n.mu.Unlock()

	if from == to {
		return
	}
	for _, fn := range listeners {
		fn(from, to)
	}
}

// LastSection 마지막으로 방문한 목록 화면. 방문한 적이 없으면 빈 문자열입니다.
func (n *Navigator) LastSection() RouteName {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.lastTop
}
