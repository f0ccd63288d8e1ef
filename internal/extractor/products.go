package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ProductCards extracts product references from a category listing page.
func ProductCards(html []byte, baseURL string) []ProductCard {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	cards := make([]ProductCard, 0)

	doc.Find(".product-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		name := strings.TrimSpace(item.Find(".product-item-title").First().Text())
		if name == "" {
			name = strings.TrimSpace(link.Text())
		}
		if name == "" {
			return
		}

		cards = append(cards, ProductCard{
			Name:         name,
			URL:          absolutize(baseURL, href),
			ThumbnailURL: absolutize(baseURL, item.Find("img").First().AttrOr("src", "")),
		})
	})

	return cards
}

// ProductDetail extracts a product from its detail page. Returns nil when the
// page has no product name or its title marks a "not found" page; callers
// filter nil products out before persistence.
func ProductDetail(html []byte, pageURL string, baseURL string) *Product {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if isNotFoundTitle(title) {
		return nil
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = cleanTitle(title)
	}
	if name == "" {
		return nil
	}

	product := Product{
		Name:            name,
		Slug:            lastSegment(pageURL),
		ImageURL:        absolutize(baseURL, doc.Find(".product-detail img").First().AttrOr("src", "")),
		Description:     strings.TrimSpace(doc.Find(".product-description").First().Text()),
		MetaDescription: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
	}

	if sku := extractSKU(doc); sku != "" {
		product.SKU = &sku
	}

	doc.Find(".product-props tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		caption := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if caption == "" || value == "" {
			return
		}

		attrName, unit := splitNameUnit(caption)
		product.Attributes = append(product.Attributes, ProductAttribute{
			Name:  attrName,
			Unit:  unit,
			Value: value,
		})
	})

	return &product
}

// extractSKU reads the labeled article field ("Артикул: X").
func extractSKU(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find(".product-article").First().Text())
	if text == "" {
		return ""
	}

	if _, after, found := strings.Cut(text, ":"); found {
		return strings.TrimSpace(after)
	}

	return text
}

func isNotFoundTitle(title string) bool {
	lowered := strings.ToLower(title)
	return strings.Contains(lowered, "404") ||
		strings.Contains(lowered, "не найдена") ||
		strings.Contains(lowered, "не найден")
}

// cleanTitle strips the site-name tail from a page title.
func cleanTitle(title string) string {
	for _, sep := range []string{" — ", " - ", " | "} {
		if before, _, found := strings.Cut(title, sep); found {
			return strings.TrimSpace(before)
		}
	}

	return strings.TrimSpace(title)
}
