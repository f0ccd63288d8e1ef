package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitNormalizeImages(t *testing.T) {
	tests := []struct {
		name           string
		images         []ProductImage
		wantFirstURL   string
		wantPrimaryIx  int
		wantSortOrders []int
	}{
		{
			name: "no primary marked picks the first",
			images: []ProductImage{
				{URL: "a.jpg"},
				{URL: "b.jpg"},
			},
			wantFirstURL:   "a.jpg",
			wantPrimaryIx:  0,
			wantSortOrders: []int{0, 1},
		},
		{
			name: "primary in the middle moves to the front",
			images: []ProductImage{
				{URL: "a.jpg", SortOrder: 4},
				{URL: "b.jpg", IsPrimary: true, SortOrder: 7},
				{URL: "c.jpg", SortOrder: 9},
			},
			wantFirstURL:   "b.jpg",
			wantPrimaryIx:  0,
			wantSortOrders: []int{0, 1, 2},
		},
		{
			name: "two primaries collapse to one",
			images: []ProductImage{
				{URL: "a.jpg", IsPrimary: true},
				{URL: "b.jpg", IsPrimary: true},
			},
			wantFirstURL:   "a.jpg",
			wantPrimaryIx:  0,
			wantSortOrders: []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImages(tt.images)

			require.Len(t, got, len(tt.images))
			assert.Equal(t, tt.wantFirstURL, got[0].URL)

			primaries := 0
			for ix, img := range got {
				if img.IsPrimary {
					primaries++
					assert.Equal(t, tt.wantPrimaryIx, ix, "primary should sit at the expected index")
				}
				assert.Equal(t, tt.wantSortOrders[ix], img.SortOrder, "sort order should be renumbered")
			}
			assert.Equal(t, 1, primaries, "exactly one image should be primary")
		})
	}
}

func TestUnitNormalizeImagesEmpty(t *testing.T) {
	assert.Empty(t, NormalizeImages(nil))
}
