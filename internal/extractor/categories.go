package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Categories extracts direct-child category cards from a listing page.
//
// A card is an anchor into the catalog that contains an image (plain
// navigation links don't); only anchors exactly one path segment deeper than
// currentPath are kept, which filters out sibling and ancestor links present
// on the same page. currentPath is the catalog-relative path of the page
// being scanned ("" for the catalog root).
func Categories(html []byte, currentPath string, baseURL string) []Category {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	categories := make([]Category, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		path := catalogPath(href)
		if path == "" || !isDirectChild(currentPath, path) || seen[path] {
			return
		}

		img := sel.Find("img").First()
		if img.Length() == 0 {
			return
		}

		text := strings.TrimSpace(sel.Text())
		name := stripCountSuffix(text)
		if name == "" {
			name = strings.TrimSpace(img.AttrOr("alt", ""))
		}
		if name == "" {
			return
		}

		seen[path] = true
		categories = append(categories, Category{
			Name:          name,
			Slug:          lastSegment(href),
			URL:           absolutize(baseURL, href),
			ImageURL:      absolutize(baseURL, img.AttrOr("src", "")),
			ProductsCount: parseCount(text),
		})
	})

	return categories
}

// isDirectChild reports whether child is exactly one segment below parent.
func isDirectChild(parent, child string) bool {
	if parent == "" {
		return !strings.Contains(child, "/")
	}

	if !strings.HasPrefix(child, parent+"/") {
		return false
	}

	return !strings.Contains(child[len(parent)+1:], "/")
}
