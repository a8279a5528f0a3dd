package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ErrInvalidCamera is returned for field-of-view or aspect values outside their domain
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig contains all parameters needed to construct a camera
type CameraConfig struct {
	Center      core.Vec3 // Eye position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up hint, need not be orthogonal to the view direction
	VFov        float64   // Vertical field of view in degrees, (0, 180)
	AspectRatio float64   // Viewport width / height
}

// Camera generates rays for rendering. It is immutable after construction.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	forward         core.Vec3
}

// NewCamera derives the camera basis and viewport from config
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("%w: vertical fov %g must be in (0, 180)", ErrInvalidCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidCamera, config.AspectRatio)
	}

	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points back toward the eye
	w, err := core.UnitVector(config.Center.Subtract(config.LookAt))
	if err != nil {
		return nil, fmt.Errorf("camera eye and target coincide: %w", err)
	}
	u, err := core.UnitVector(config.Up.Cross(w))
	if err != nil {
		return nil, fmt.Errorf("camera up vector is parallel to view direction: %w", err)
	}
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		forward:         w.Negate(),
	}, nil
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// (0,0) is the lower-left corner of the viewport.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}
