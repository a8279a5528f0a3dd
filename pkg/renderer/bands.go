package renderer

// Band is a contiguous range of image columns [Start, End) owned by one worker per pass
type Band struct {
	Index int
	Start int
	End   int
}

// Width returns the number of columns in the band
func (b Band) Width() int {
	return b.End - b.Start
}

// NewBands splits [0, width) into n disjoint bands of near-equal width.
// The first width%n bands take one extra column so nothing is dropped.
// n is clamped to [1, width].
func NewBands(width, n int) []Band {
	if width <= 0 {
		return nil
	}
	n = max(1, min(n, width))

	base := width / n
	extra := width % n

	bands := make([]Band, n)
	start := 0
	for i := range bands {
		w := base
		if i < extra {
			w++
		}
		bands[i] = Band{Index: i, Start: start, End: start + w}
		start += w
	}
	return bands
}
