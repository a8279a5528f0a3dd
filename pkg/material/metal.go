package material

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) Metal {
	// Clamp fuzz to valid range
	return Metal{Albedo: albedo, Fuzz: core.Clamp(fuzz, 0, 1)}
}

// Scatter implements the Material interface for metal scattering
func (m Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Perturb by a hemisphere sample scaled by fuzz
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInHemisphere(hit.Normal, sampler).Multiply(m.Fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Rays that end up below the surface are absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}

// Validate checks the albedo and fuzz ranges
func (m Metal) Validate() error {
	if !validAlbedo(m.Albedo) {
		return fmt.Errorf("%w: metal albedo %v outside [0,1]", ErrInvalidMaterial, m.Albedo)
	}
	if !inUnitRange(m.Fuzz) {
		return fmt.Errorf("%w: metal fuzz %g outside [0,1]", ErrInvalidMaterial, m.Fuzz)
	}
	return nil
}
