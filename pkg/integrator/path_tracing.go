package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

const (
	// DefaultMaxDepth is the bounce cap used when none is configured
	DefaultMaxDepth = 50

	// shadowAcneEpsilon keeps a scattered ray from re-hitting its own origin surface
	shadowAcneEpsilon = 0.001
)

// PathTracingIntegrator estimates radiance by recursive bounce sampling.
// Paths that run out of depth contribute black, so results darken slightly near the cap.
type PathTracingIntegrator struct {
	MaxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: maxDepth}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, pt.MaxDepth)
}

// rayColor returns the radiance along r with depth bounces left
func (pt *PathTracingIntegrator) rayColor(r core.Ray, world World, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(r, shadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return backgroundGradient(r, world)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, sampler, depth-1))
}

// backgroundGradient returns a gradient color based on ray direction
func backgroundGradient(r core.Ray, world World) core.Vec3 {
	topColor, bottomColor := world.BackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}
