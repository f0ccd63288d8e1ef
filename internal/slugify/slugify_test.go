package slugify_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stroymet/catalog-ingest/internal/slugify"
)

func TestUnitTransliterate(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"cyrillic name": {
			input: "Болт оцинкованный",
			want:  "bolt-otsinkovannyy",
		},
		"unit and parenthetical": {
			input: "Диаметр, мм (У10)",
			want:  "diametr-mm-u10",
		},
		"mixed latin and digits": {
			input: "Гайка DIN 934 М10",
			want:  "gayka-din-934-m10",
		},
		"leading and trailing junk": {
			input: "  Шуруп!!! ",
			want:  "shurup",
		},
		"already a slug": {
			input: "anchor-bolts",
			want:  "anchor-bolts",
		},
		"empty": {
			input: "",
			want:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify.Transliterate(tt.input), "should produce correct slug")
		})
	}
}

func TestUnitTransliterateCharsetAndDeterminism(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"Диаметр, мм (У10)",
		"Саморез по дереву 4.8х152",
		"Ключ гаечный — рожковый №17",
		strings.Repeat("Длинное название категории ", 20),
	}

	for _, input := range inputs {
		first := slugify.Transliterate(input)

		assert.Regexp(t, allowed, first, "slug should contain only [a-z0-9-]")
		assert.False(t, strings.HasPrefix(first, "-"), "slug shouldn't start with hyphen")
		assert.False(t, strings.HasSuffix(first, "-"), "slug shouldn't end with hyphen")
		assert.NotContains(t, first, "--", "slug shouldn't contain doubled hyphens")
		assert.LessOrEqual(t, len(first), slugify.MaxLength, "slug should respect length cap")

		for range 5 {
			assert.Equal(t, first, slugify.Transliterate(input), "repeated calls should be byte identical")
		}
	}
}

func TestUnitIsNumeric(t *testing.T) {
	tests := map[string]struct {
		value string
		want  bool
	}{
		"integer":            {value: "10", want: true},
		"decimal point":      {value: "4.8", want: true},
		"decimal comma":      {value: "4,8", want: true},
		"spaced thousands":   {value: "1 200", want: true},
		"size designation":   {value: "М10", want: false},
		"text":               {value: "красный", want: false},
		"mixed":              {value: "10x20", want: false},
		"empty":              {value: "", want: false},
		"trailing separator": {value: "10.", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify.IsNumeric(tt.value), "should classify value correctly")
		})
	}
}

func TestUnitMostlyNumeric(t *testing.T) {
	tests := map[string]struct {
		values []string
		want   bool
	}{
		"three of four numeric": {
			values: []string{"10", "12", "14", "М10"},
			want:   true,
		},
		"half numeric": {
			values: []string{"10", "красный", "синий", "М10"},
			want:   false,
		},
		"all numeric": {
			values: []string{"1", "2,5", "3.5"},
			want:   true,
		},
		"empty set": {
			values: nil,
			want:   false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify.MostlyNumeric(tt.values), "should classify value set correctly")
		})
	}
}

func TestUnitParseNumeric(t *testing.T) {
	parsed, ok := slugify.ParseNumeric("4,8")
	assert.True(t, ok, "decimal comma value should parse")
	assert.InDelta(t, 4.8, parsed, 1e-9, "should normalize decimal comma")

	_, ok = slugify.ParseNumeric("М10")
	assert.False(t, ok, "size designation shouldn't parse")
}
