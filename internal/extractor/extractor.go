// Package extractor turns raw catalog HTML into structured records.
// All functions are pure: they take markup and optional context and return
// whatever they could recognize. Unknown or broken markup yields empty
// results, never an error, so callers can treat missing data as a soft skip.
package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

// CatalogPrefix is the path prefix of every catalog page on the source site.
const CatalogPrefix = "/catalog/"

// Category is a category card extracted from a listing page.
type Category struct {
	Name          string
	Slug          string
	URL           string
	ImageURL      string
	ProductsCount int
}

// Attribute is a filter attribute extracted from a category's filter panel.
type Attribute struct {
	Slug   string
	Name   string
	Unit   *string
	Values []string
}

// ProductCard is a product reference extracted from a listing page.
type ProductCard struct {
	Name         string
	URL          string
	ThumbnailURL string
}

// Product is a product extracted from a detail page.
type Product struct {
	Name            string
	Slug            string
	SKU             *string
	ImageURL        string
	Description     string
	MetaDescription string
	Attributes      []ProductAttribute
}

// ProductAttribute is a single specification row of a product detail page.
type ProductAttribute struct {
	Name  string
	Unit  *string
	Value string
}

var (
	countSuffix = regexp.MustCompile(`\s*\d+\s+товар(?:|а|ов)\s*$`)
	countDigits = regexp.MustCompile(`(\d+)\s+товар`)
	parenUnit   = regexp.MustCompile(`^(.*\S)\s*\(([^()]+)\)\s*$`)
)

// splitNameUnit splits an attribute caption into name and measurement unit.
// Units come either as a trailing comma suffix ("Диаметр, мм") or a trailing
// parenthetical ("Вес (кг)"). Short suffixes only; a long tail after a comma
// is part of the name.
func splitNameUnit(caption string) (string, *string) {
	caption = strings.TrimSpace(caption)

	if m := parenUnit.FindStringSubmatch(caption); m != nil {
		unit := strings.TrimSpace(m[2])
		if isUnitLike(unit) {
			return strings.TrimSpace(m[1]), &unit
		}
	}

	if ix := strings.LastIndex(caption, ","); ix > 0 {
		unit := strings.TrimSpace(caption[ix+1:])
		if isUnitLike(unit) {
			return strings.TrimSpace(caption[:ix]), &unit
		}
	}

	return caption, nil
}

func isUnitLike(s string) bool {
	return s != "" && len([]rune(s)) <= 8 && !strings.Contains(s, " ")
}

// stripCountSuffix removes a trailing "N товаров" counter from a card caption.
func stripCountSuffix(s string) string {
	return strings.TrimSpace(countSuffix.ReplaceAllString(s, ""))
}

// parseCount extracts the N of a "N товаров" counter, 0 if absent.
func parseCount(s string) int {
	m := countDigits.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// absolutize resolves href against base, returning href untouched when it is
// already absolute or base is unparseable.
func absolutize(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return baseURL.ResolveReference(ref).String()
}

// catalogPath returns the catalog-relative path of href ("parent/child" for
// "/catalog/parent/child/"), or "" when href is outside the catalog.
func catalogPath(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	path := parsed.Path
	if !strings.HasPrefix(path, CatalogPrefix) {
		return ""
	}

	return strings.Trim(strings.TrimPrefix(path, CatalogPrefix), "/")
}

// lastSegment returns the last path segment of href, without trailing slash.
func lastSegment(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed == "" {
		return ""
	}

	segments := strings.Split(trimmed, "/")
	return segments[len(segments)-1]
}
