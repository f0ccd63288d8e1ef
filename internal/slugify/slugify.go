// Package slugify turns free-text catalog names into canonical identifiers
// and classifies attribute values as numeric or textual.
package slugify

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxLength caps generated slugs.
const MaxLength = 100

// numericShare is the fraction of samples that must look numeric for a value
// set to be classified as numeric.
const numericShare = 0.7

var translitMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
	' ': "-", '_': "-", '/': "-", '.': "-", ',': "-",
}

var (
	disallowed     = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
	numericPattern = regexp.MustCompile(`^[0-9]+([.,][0-9]+)?$`)
)

// Transliterate converts s into a lowercase latin slug limited to
// [a-z0-9-], with collapsed hyphens and no leading or trailing hyphen.
// The same input always yields the same output.
func Transliterate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if mapped, ok := translitMap[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	slug := disallowed.ReplaceAllString(b.String(), "")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxLength {
		slug = strings.Trim(slug[:MaxLength], "-")
	}

	return slug
}

// IsNumeric reports whether v is a numeric token: after stripping spaces and
// normalizing a decimal comma it must both parse as a float and contain
// nothing but digits and one decimal separator.
func IsNumeric(v string) bool {
	cleaned := strings.ReplaceAll(v, " ", "")
	if !numericPattern.MatchString(cleaned) {
		return false
	}

	_, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ",", "."), 64)
	return err == nil
}

// ParseNumeric returns the float value of a numeric token.
func ParseNumeric(v string) (float64, bool) {
	if !IsNumeric(v) {
		return 0, false
	}

	cleaned := strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), ",", ".")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return parsed, true
}

// MostlyNumeric reports whether at least 70% of values are numeric tokens.
// An empty value set is not numeric.
func MostlyNumeric(values []string) bool {
	if len(values) == 0 {
		return false
	}

	numeric := 0
	for _, v := range values {
		if IsNumeric(v) {
			numeric++
		}
	}

	return float64(numeric) >= numericShare*float64(len(values))
}
