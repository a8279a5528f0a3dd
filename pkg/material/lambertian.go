package material

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Fractional reflectance per channel
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) Lambertian {
	return Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// It always scatters; the direction is a hemisphere sample around the normal.
func (l Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := core.RandomInHemisphere(hit.Normal, sampler)

	// Catch degenerate scatter direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

// Validate checks that the albedo lies in [0,1]^3
func (l Lambertian) Validate() error {
	if !validAlbedo(l.Albedo) {
		return fmt.Errorf("%w: lambertian albedo %v outside [0,1]", ErrInvalidMaterial, l.Albedo)
	}
	return nil
}
