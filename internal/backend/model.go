package backend

// Product 화면에 표시할 상품 정보입니다. 응답을 받을 때마다 새로 생성되며 이후 변경하지 않습니다.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       int64    `json:"price"`
	PhotoID     string   `json:"photo_id,omitempty"`
	Photos      []string `json:"photos"`
	BasalamURL  string   `json:"basalamUrl"`
	Description string   `json:"description,omitempty"`

	VendorIdentifier string `json:"vendorIdentifier,omitempty"`
	VendorTitle      string `json:"vendorTitle,omitempty"`

	// StatusValue, Inventory 경쟁 상품으로 표시할 수 있는지 판단하는 데 사용됩니다.
	StatusValue int `json:"-"`
	Inventory   int `json:"-"`

	// IsCompetitor 유사 상품 검색 결과가 이미 경쟁 상품으로 등록되어 있는지 여부
	IsCompetitor bool `json:"isCompetitor,omitempty"`
}

// Photo 대표 이미지 URL. 이미지가 없으면 빈 문자열입니다.
func (p Product) Photo() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// Competitor 내 상품과 연결된 경쟁 상품입니다.
type Competitor struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Price            int64  `json:"price"`
	Photo            string `json:"photo"`
	VendorIdentifier string `json:"vendorIdentifier"`
	VendorTitle      string `json:"vendorTitle"`
	ProductURL       string `json:"productUrl"`
}

// CompetitorRef 백엔드에 저장된 경쟁 상품 연결 정보(op_product, op_vendor)
type CompetitorRef struct {
	OpProduct string `json:"op_product"`
	OpVendor  string `json:"op_vendor"`
}

// CompetitorsOverview 경쟁 상품 집합의 요약 정보입니다. 서버가 계산한 값이며 목록에서 다시 계산하지 않습니다.
type CompetitorsOverview struct {
	CompetitorsCount int   `json:"competitors_count"`
	AveragePrice     int64 `json:"average_price"`
	MinPrice         int64 `json:"min_price"`
}

// ProductPage 페이지 단위 상품 목록
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
}

// CompetitorPage 페이지 단위 경쟁 상품 목록
type CompetitorPage struct {
	Competitors []Competitor `json:"competitors"`
	Page        int          `json:"page"`
	HasMore     bool         `json:"hasMore"`
}

// LoginResult /login 응답
type LoginResult struct {
	Status bool   `json:"status"`
	Token  string `json:"token"`
}

// ExchangeResult /auth/exchange-token 응답. HasPassword가 false이면 비밀번호 설정 단계가 필요합니다.
type ExchangeResult struct {
	Token       string `json:"token"`
	HasPassword bool   `json:"has-password"`
}

// Credentials /password 응답으로 받은 대시보드 로그인 정보
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ListKind 내 상품 목록의 종류
type ListKind string

const (
	ListMyProducts ListKind = "my-products"
	ListCheap      ListKind = "cheap"
	ListExpensive  ListKind = "expensives"
)

// SearchMode 유사 상품 검색 방식
type SearchMode string

const (
	// SearchCombined 텍스트와 이미지 유사도를 함께 사용합니다.
	SearchCombined SearchMode = "combined"

	// SearchText 텍스트 유사도만 사용합니다.
	SearchText SearchMode = "text"
)

func (m SearchMode) Valid() bool {
	return m == SearchCombined || m == SearchText
}
