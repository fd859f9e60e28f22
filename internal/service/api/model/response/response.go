// Package response API 응답 본문 모델을 정의합니다.
package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드
	ResultCode int `json:"result_code" example:"401"`

	// Kind 화면 처리 구분. needs_login이면 로그인 화면으로 이동해야 합니다.
	Kind string `json:"kind,omitempty" example:"needs_login"`

	Message string `json:"message" example:"نشست شما منقضی شده است. لطفا دوباره وارد شوید"`
}

// SuccessResponse 본문이 필요 없는 요청의 성공 응답
type SuccessResponse struct {
	ResultCode int `json:"result_code" example:"0"`
}

// RouteResponse 화면 이동이 일어나는 요청의 응답
type RouteResponse struct {
	Route string `json:"route" example:"/my-products"`
}

// SessionResponse 현재 로그인 상태와 화면
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Route         string `json:"route" example:"/product/123"`
	LastSection   string `json:"last_section,omitempty" example:"my-products"`
}

// SSOStartResponse 외부 인증 화면 주소
type SSOStartResponse struct {
	RedirectURI string `json:"redirect_uri"`
}

// HealthResponse 서버와 의존성 상태
type HealthResponse struct {
	Status       string                      `json:"status" example:"healthy"`
	Uptime       int64                       `json:"uptime" example:"3600"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus 의존성 하나의 상태
type DependencyStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty"`
}
