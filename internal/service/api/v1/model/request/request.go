// Package request v1 API 요청 본문 모델을 정의합니다.
package request

// LoginRequest 사용자 이름/비밀번호 로그인
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128" label:"نام کاربری" example:"vendor"`
	Password string `json:"password" validate:"required,max=256" label:"رمز عبور" example:"secret"`
}

// SSOCompleteRequest 외부 인증에서 돌아온 code와 state
type SSOCompleteRequest struct {
	Code  string `json:"code" query:"code" validate:"required" label:"code"`
	State string `json:"state" query:"state" validate:"required" label:"state"`
}

// SetPasswordRequest SSO로 처음 로그인한 계정의 비밀번호 설정
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=256" label:"رمز عبور"`
}

// ListLoadRequest 목록 화면 검색
type ListLoadRequest struct {
	SearchTerm string `json:"search_term" query:"q" validate:"max=200" label:"عبارت جستجو" example:"لیوان"`
}

// ScrollRequest 목록 화면 스크롤 위치 저장
type ScrollRequest struct {
	Position int `json:"position" validate:"min=0" label:"موقعیت اسکرول" example:"480"`
}

// SimilarSearchRequest 유사 상품 검색. Title이 비어 있으면 내 상품 제목으로 검색합니다.
type SimilarSearchRequest struct {
	Mode  string `json:"mode" validate:"required,oneof=combined text" label:"روش جستجو" example:"combined"`
	Title string `json:"title" validate:"max=300" label:"عنوان"`
}

// AddCompetitorRequest 경쟁 상품 추가
type AddCompetitorRequest struct {
	OpProduct string `json:"op_product" validate:"required,numeric" label:"شناسه محصول" example:"7"`
	OpVendor  string `json:"op_vendor" validate:"required" label:"غرفه" example:"shopA"`
}
