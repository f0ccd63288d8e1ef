package extractor

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSize is the number of products the source site renders per listing page.
const PageSize = 24

var foundHeader = regexp.MustCompile(`Найдено:\s*(\d+)`)

// PageCount determines how many listing pages a category has. Three methods
// are tried and the maximum of those that yield a value wins:
// a "Найдено: N товаров" header, the page number of the last pagination
// link, and the raw count of pagination items. Returns at least 1.
func PageCount(html []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return 1
	}

	pages := 1

	if n := countFromHeader(doc); n > pages {
		pages = n
	}
	if n := countFromLastLink(doc); n > pages {
		pages = n
	}
	if n := doc.Find(".pagination li").Length(); n > pages {
		pages = n
	}

	return pages
}

func countFromHeader(doc *goquery.Document) int {
	m := foundHeader.FindStringSubmatch(doc.Find(".catalog-found").First().Text())
	if m == nil {
		return 0
	}

	total := atoi(m[1])
	if total == 0 {
		return 0
	}

	return (total + PageSize - 1) / PageSize
}

func countFromLastLink(doc *goquery.Document) int {
	last := 0

	doc.Find(".pagination a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if page := pageParam(href); page > last {
			last = page
		}
	})

	return last
}

// pageParam reads the PAGEN-style page parameter from a pagination href.
func pageParam(href string) int {
	parsed, err := url.Parse(href)
	if err != nil {
		return 0
	}

	for key, values := range parsed.Query() {
		if !strings.HasPrefix(key, "PAGEN") && key != "page" {
			continue
		}
		if len(values) > 0 {
			return atoi(values[0])
		}
	}

	return 0
}
