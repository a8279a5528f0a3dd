package renderer

import (
	"image"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Display is an RGBA8 frame built from the accumulator.
// Pix is row-major with the origin at the top-left, four bytes per pixel.
type Display struct {
	Width   int
	Height  int
	Samples int // Passes averaged into this frame
	Pix     []byte
}

// Image wraps the display pixels as an image.RGBA without copying
func (d *Display) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    d.Pix,
		Stride: 4 * d.Width,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

// RGBA returns the bytes of the pixel at (x, y)
func (d *Display) RGBA(x, y int) (r, g, b, a uint8) {
	i := 4 * (y*d.Width + x)
	return d.Pix[i], d.Pix[i+1], d.Pix[i+2], d.Pix[i+3]
}

// buildDisplay averages every pixel over its own sample count and gamma-corrects it.
// After n completed passes every count is n. Mid-pass, bands that already merged
// carry one more sample than the rest and are still averaged correctly.
func buildDisplay(acc *Accumulator, samples int) *Display {
	d := &Display{
		Width:   acc.Width(),
		Height:  acc.Height(),
		Samples: samples,
		Pix:     make([]byte, 4*acc.Width()*acc.Height()),
	}

	acc.Read(func(sums []core.Vec3, counts []int) {
		for i, sum := range sums {
			p := d.Pix[4*i : 4*i+4 : 4*i+4]
			p[3] = 255
			if counts[i] == 0 {
				continue
			}
			scale := 1.0 / float64(counts[i])
			p[0] = toByte(sum.X * scale)
			p[1] = toByte(sum.Y * scale)
			p[2] = toByte(sum.Z * scale)
		}
	})
	return d
}

// toByte applies gamma 2 and quantizes to 8 bits
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	return uint8(256 * core.Clamp(math.Sqrt(v), 0, 0.999))
}
