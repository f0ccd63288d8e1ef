package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Filters extracts filter attributes from a category listing page.
//
// Each widget inside the filter panel yields one candidate attribute from
// its checkbox inputs. Checkbox values encode "<attribute-slug>|<option>";
// the slug is taken from the first checkbox of a widget (widgets are assumed
// homogeneous). Widgets without a slug or without a single parsed option are
// dropped. The attribute caption is split into name and unit.
func Filters(html []byte) []Attribute {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	attributes := make([]Attribute, 0)

	doc.Find(".catalog-filter .filter-block").Each(func(_ int, widget *goquery.Selection) {
		slug := ""
		values := make([]string, 0)

		widget.Find(`input[type="checkbox"]`).Each(func(_ int, input *goquery.Selection) {
			value, ok := input.Attr("value")
			if !ok {
				return
			}

			encodedSlug, option, found := strings.Cut(value, "|")
			if !found || strings.TrimSpace(option) == "" {
				return
			}

			if slug == "" {
				slug = strings.TrimSpace(encodedSlug)
			}
			values = append(values, strings.TrimSpace(option))
		})

		if slug == "" || len(values) == 0 {
			return
		}

		caption := strings.TrimSpace(widget.Find(".filter-block-title").First().Text())
		if caption == "" {
			caption = slug
		}
		name, unit := splitNameUnit(caption)

		attributes = append(attributes, Attribute{
			Slug:   slug,
			Name:   name,
			Unit:   unit,
			Values: values,
		})
	})

	return attributes
}
