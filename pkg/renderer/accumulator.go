package renderer

import (
	"sync"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Accumulator holds the running color sum and sample count of every pixel.
// Storage is flat row-major slices with the origin at the top-left.
// Writers merge whole bands under the write lock, so a reader sees each band
// either before or after its merge, never halfway.
type Accumulator struct {
	mu            sync.RWMutex
	width, height int
	sums          []core.Vec3
	counts        []int
}

// NewAccumulator creates a zeroed accumulator for a width x height image
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		width:  width,
		height: height,
		sums:   make([]core.Vec3, width*height),
		counts: make([]int, width*height),
	}
}

// Width returns the image width
func (a *Accumulator) Width() int { return a.width }

// Height returns the image height
func (a *Accumulator) Height() int { return a.height }

// AddBand adds a band's worth of colors. colors is row-major over the band's
// columns: colors[y*band.Width() + (x-band.Start)].
func (a *Accumulator) AddBand(band Band, colors []core.Vec3) {
	bw := band.Width()

	a.mu.Lock()
	defer a.mu.Unlock()

	for y := 0; y < a.height; y++ {
		row := a.sums[y*a.width+band.Start : y*a.width+band.End]
		counts := a.counts[y*a.width+band.Start : y*a.width+band.End]
		local := colors[y*bw : (y+1)*bw]
		for i := range row {
			row[i] = row[i].Add(local[i])
			counts[i]++
		}
	}
}

// Read calls fn with the sums and counts under the read lock. fn must not retain the slices.
func (a *Accumulator) Read(fn func(sums []core.Vec3, counts []int)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn(a.sums, a.counts)
}
