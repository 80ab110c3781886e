package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Height returns the number of rows in the band.
func (b Band) Height() int {
	return b.Y1 - b.Y0
}

// SplitRows divides height rows into at most parts contiguous bands whose
// heights differ by at most one. It returns nil if height < 1.
// parts <= 0 is treated as 1; parts larger than height is capped at height.
func SplitRows(height, parts int) []Band {
	if height < 1 {
		return nil
	}
	parts = min(max(parts, 1), height)

	bands := make([]Band, parts)
	base, extra := height/parts, height%parts
	y := 0
	for i := range bands {
		h := base
		if i < extra {
			h++
		}
		bands[i] = Band{Y0: y, Y1: y + h}
		y += h
	}
	return bands
}
