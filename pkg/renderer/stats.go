package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width       int
	Height      int
	Workers     int           // Number of column bands per pass
	Samples     int           // Completed passes, one sample per pixel each
	LastPass    time.Duration // Wall time of the most recent pass
	Elapsed     time.Duration // Time since the session was created
	TotalPixels int
	State       State
}

// TotalSamples returns the number of primary rays traced so far
func (rs RenderStats) TotalSamples() int {
	return rs.TotalPixels * rs.Samples
}

// SamplesPerSecond returns the primary-ray throughput of the last pass
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.LastPass <= 0 {
		return 0
	}
	return float64(rs.TotalPixels) / rs.LastPass.Seconds()
}

// AverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func AverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		}
	}
	return total / (255 * float64(n))
}
