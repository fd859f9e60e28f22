package pricewatch

import (
	"html"
	"strings"

	"github.com/darkkaiser/competitor-dashboard/internal/backend"
	"github.com/darkkaiser/competitor-dashboard/internal/pricing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report 상품 하나의 가격 비교 결과
type Report struct {
	Product  backend.Product
	Overview backend.CompetitorsOverview
	Badges   pricing.Badges
}

var printer = message.NewPrinter(language.English)

// Message 텔레그램 HTML 형식의 알림 메시지
func (r Report) Message() string {
	var sb strings.Builder

	sb.WriteString("<b>")
	sb.WriteString(html.EscapeString(r.Product.Title))
	sb.WriteString("</b>\n")
	sb.WriteString(printer.Sprintf("قیمت شما: %d تومان\n", r.Product.Price))
	sb.WriteString(printer.Sprintf("تعداد رقبا: %d\n", r.Overview.CompetitorsCount))

	writeLine(&sb, "کمترین قیمت", r.Overview.MinPrice, r.Badges.Lowest)
	writeLine(&sb, "میانگین قیمت", r.Overview.AveragePrice, r.Badges.Average)

	if r.Product.BasalamURL != "" {
		sb.WriteString(html.EscapeString(r.Product.BasalamURL))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func writeLine(sb *strings.Builder, label string, price int64, badge *pricing.Badge) {
	if price <= 0 {
		return
	}
	sb.WriteString(printer.Sprintf("%s: %d تومان", label, price))
	if badge != nil {
		sb.WriteString(" (")
		sb.WriteString(badge.Text)
		sb.WriteString(")")
	}
	sb.WriteByte('\n')
}
