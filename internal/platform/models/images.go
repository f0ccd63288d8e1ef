package models

// NormalizeImages renumbers sort order and enforces the single-primary
// invariant: the image currently marked primary keeps the flag and moves to
// the front, every other one loses it. When none is marked, the first image
// becomes primary.
func NormalizeImages(images []ProductImage) []ProductImage {
	if len(images) == 0 {
		return images
	}

	primary := 0
	for ix, img := range images {
		if img.IsPrimary {
			primary = ix
			break
		}
	}

	normalized := make([]ProductImage, 0, len(images))
	normalized = append(normalized, images[primary])
	for ix, img := range images {
		if ix != primary {
			normalized = append(normalized, img)
		}
	}

	for ix := range normalized {
		normalized[ix].IsPrimary = ix == 0
		normalized[ix].SortOrder = ix
	}

	return normalized
}
