package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// World is the read-only view of a scene an integrator needs
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	BackgroundColors() (topColor, bottomColor core.Vec3)
}

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use when each goroutine passes its own sampler.
type Integrator interface {
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}
