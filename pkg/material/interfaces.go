package material

import (
	"errors"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ErrInvalidMaterial is returned by Validate for out-of-range material parameters
var ErrInvalidMaterial = errors.New("invalid material")

// Material interface for objects that can scatter rays.
// Implementations are small value types so a HitRecord carries its own copy.
type Material interface {
	// Scatter returns the scattered ray and attenuation, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Validate reports ErrInvalidMaterial for parameters outside their physical range
	Validate() error
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// validAlbedo reports whether every channel lies in [0, 1]
func validAlbedo(albedo core.Vec3) bool {
	return inUnitRange(albedo.X) && inUnitRange(albedo.Y) && inUnitRange(albedo.Z)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
