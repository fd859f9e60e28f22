package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/iancoleman/strcase"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// basalamProductURL 판매자 식별자와 상품 ID로 바살람 상품 페이지 주소를 만듭니다.
const basalamProductURL = "https://basalam.com/%s/product/%s"

// activeProductStatus 판매 중인 상품의 status.value
const activeProductStatus = 2976

// field names 중 처음으로 존재하는 필드를 반환합니다. 각 이름은 snake_case와 camelCase 표기를 모두 확인합니다.
func field(r gjson.Result, names ...string) gjson.Result {
	for _, name := range names {
		for _, key := range []string{name, strcase.ToSnake(name), strcase.ToLowerCamel(name)} {
			if v := r.Get(key); v.Exists() && v.Type != gjson.Null {
				return v
			}
		}
	}
	return gjson.Result{}
}

// idString 숫자 또는 문자열로 전달되는 ID를 문자열로 변환합니다.
func idString(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		return strconv.FormatInt(r.Int(), 10)
	case gjson.String:
		return strings.TrimSpace(r.Str)
	default:
		return ""
	}
}

// photoURL 이미지 필드가 문자열이거나 크기별 URL 객체인 경우를 모두 처리합니다.
func photoURL(r gjson.Result) string {
	switch {
	case r.Type == gjson.String:
		return r.Str
	case r.IsObject():
		for _, size := range []string{"md", "MEDIUM", "medium", "lg", "LARGE", "original", "url", "sm", "SMALL", "xs"} {
			if v := r.Get(size); v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
	}
	return ""
}

// parseProduct 백엔드가 돌려주는 다양한 형태의 상품 JSON을 Product로 변환합니다.
// 필드가 없으면 빈 값이나 0으로 채웁니다.
func parseProduct(r gjson.Result) Product {
	p := Product{
		ID:    idString(field(r, "id", "product_id")),
		Title: field(r, "title", "name").String(),
		Price: field(r, "price", "primary_price").Int(),
	}

	if photo := photoURL(field(r, "photo", "photo_url", "image")); photo != "" {
		p.Photos = append(p.Photos, photo)
	}
	field(r, "photos").ForEach(func(_, v gjson.Result) bool {
		if u := photoURL(v); u != "" && u != p.Photo() {
			p.Photos = append(p.Photos, u)
		}
		return true
	})
	if p.Photos == nil {
		p.Photos = []string{}
	}
	if photoID := field(r, "photo_id"); photoID.Exists() {
		p.PhotoID = idString(photoID)
	} else if photoID := r.Get("photo.id"); photoID.Exists() {
		p.PhotoID = idString(photoID)
	}

	vendor := field(r, "vendor")
	if vendor.IsObject() {
		p.VendorIdentifier = field(vendor, "identifier").String()
		p.VendorTitle = field(vendor, "title", "name").String()
	} else {
		p.VendorIdentifier = field(r, "vendor_identifier").String()
		p.VendorTitle = field(r, "vendor_title", "vendor_name").String()
	}

	if u := field(r, "basalam_url", "url").String(); strings.HasPrefix(u, "http") {
		p.BasalamURL = u
	} else if p.VendorIdentifier != "" && p.ID != "" {
		p.BasalamURL = fmt.Sprintf(basalamProductURL, p.VendorIdentifier, p.ID)
	}

	p.Description = plainText(field(r, "description", "summary").String())

	if status := field(r, "status"); status.IsObject() {
		p.StatusValue = int(status.Get("value").Int())
	} else {
		p.StatusValue = int(status.Int())
	}
	p.Inventory = int(field(r, "inventory", "stock").Int())
	p.IsCompetitor = field(r, "is_competitor").Bool()

	return p
}

// parseProducts 배열 결과를 Product 목록으로 변환합니다. 배열이 아니면 빈 목록을 반환합니다.
func parseProducts(r gjson.Result) []Product {
	products := []Product{}
	if !r.IsArray() {
		return products
	}

	r.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			products = append(products, parseProduct(v))
		}
		return true
	})
	return products
}

// plainText HTML 설명에서 텍스트만 추출합니다. HTML이 아니면 공백만 정리하여 반환합니다.
//
// 블록(p, li, div) 하나가 한 줄이 되며, 안쪽에 다른 블록이 있는 블록은 건너뛰고 안쪽 블록을 사용합니다.
// <br>은 줄바꿈으로 바뀌고 <b> 같은 인라인 태그는 텍스트만 남습니다.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	var lines []string
	doc.Find("p, li, div").Each(func(_ int, sel *goquery.Selection) {
		if sel.Find("p, li, div").Length() > 0 {
			return
		}
		lines = appendLines(lines, sel.Text())
	})
	if len(lines) == 0 {
		lines = appendLines(lines, doc.Text())
	}
	return strings.Join(lines, "\n")
}

func appendLines(lines []string, text string) []string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// isActiveCompetitor 판매 중이고 재고가 있는 상품만 경쟁 상품으로 표시합니다.
func isActiveCompetitor(p Product) bool {
	return p.StatusValue == activeProductStatus && p.Inventory > 0
}

func toCompetitor(p Product) Competitor {
	return Competitor{
		ID:               p.ID,
		Title:            p.Title,
		Price:            p.Price,
		Photo:            p.Photo(),
		VendorIdentifier: p.VendorIdentifier,
		VendorTitle:      p.VendorTitle,
		ProductURL:       p.BasalamURL,
	}
}
