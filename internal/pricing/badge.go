// Package pricing 내 상품 가격과 경쟁 상품 가격을 비교한 배지를 만듭니다.
package pricing

import (
	"fmt"
	"math"
)

// Tone 배지의 색상 구분
type Tone string

const (
	// ToneCheaper 경쟁 상품이 더 저렴함(빨간색)
	ToneCheaper Tone = "cheaper"

	// TonePricier 경쟁 상품이 더 비쌈(초록색)
	TonePricier Tone = "pricier"

	ToneNeutral Tone = "neutral"
)

const (
	StyleClassCheaper = "badge badge-red"
	StyleClassPricier = "badge badge-green"
	StyleClassNeutral = "badge badge-neutral"

	labelCheaper = "ارزان‌تر"
	labelPricier = "گران‌تر"
	labelEqual   = "هم‌قیمت"
)

// Badge 가격 비교 결과
type Badge struct {
	Text       string `json:"text"`
	StyleClass string `json:"styleClass"`
	Tone       Tone   `json:"tone"`
	Percent    int64  `json:"percent"`
}

// Compare 내 가격(selfPrice)과 경쟁 상품 가격(competitorPrice)을 비교한 배지를 반환합니다.
//
// 비율은 round(|selfPrice-competitorPrice| / competitorPrice * 100)이며 기준값은 항상 경쟁 상품 가격입니다.
// 경쟁 상품 가격이 0 이하(없음)이면 배지를 만들지 않고 false를 반환합니다.
func Compare(selfPrice, competitorPrice int64) (Badge, bool) {
	if competitorPrice <= 0 {
		return Badge{}, false
	}

	diff := selfPrice - competitorPrice
	percent := int64(math.Round(math.Abs(float64(diff)) / float64(competitorPrice) * 100))

	switch {
	case diff > 0:
		return Badge{
			Text:       fmt.Sprintf("-%d%% %s", percent, labelCheaper),
			StyleClass: StyleClassCheaper,
			Tone:       ToneCheaper,
			Percent:    percent,
		}, true
	case diff < 0:
		return Badge{
			Text:       fmt.Sprintf("+%d%% %s", percent, labelPricier),
			StyleClass: StyleClassPricier,
			Tone:       TonePricier,
			Percent:    percent,
		}, true
	default:
		return Badge{
			Text:       labelEqual,
			StyleClass: StyleClassNeutral,
			Tone:       ToneNeutral,
		}, true
	}
}

// Badges 최저가와 평균가 비교 배지. 비교할 수 없는 항목은 nil입니다.
type Badges struct {
	Lowest  *Badge `json:"lowest"`
	Average *Badge `json:"average"`
}

// CompareOverview 최저가와 평균가에 같은 규칙을 적용하여 두 배지를 만듭니다.
func CompareOverview(selfPrice, minPrice, averagePrice int64) Badges {
	var b Badges
	if badge, ok := Compare(selfPrice, minPrice); ok {
		b.Lowest = &badge
	}
	if badge, ok := Compare(selfPrice, averagePrice); ok {
		b.Average = &badge
	}
	return b
}
