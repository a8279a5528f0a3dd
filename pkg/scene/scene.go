package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// ErrInvalidScene is returned by Validate when the scene cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Default sky gradient, white at the horizon fading to blue overhead
var (
	DefaultTopColor    = core.NewVec3(0.3, 0.5, 1.0)
	DefaultBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// Scene contains all the elements needed for rendering.
// Shapes is append-only during setup and must not change once rendering starts.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Shapes       []geometry.Shape // Objects in the scene, queried in order
	TopColor     core.Vec3        // Sky color straight up
	BottomColor  core.Vec3        // Sky color straight down
}

// New creates an empty scene viewed through the given camera
func New(cameraConfig geometry.CameraConfig) (*Scene, error) {
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Camera:       camera,
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		TopColor:     DefaultTopColor,
		BottomColor:  DefaultBottomColor,
	}, nil
}

// Add appends shapes to the scene in order
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.Add(geometry.NewSphere(center, radius, mat))
}

// Hit returns the nearest intersection in [tMin, tMax] by a linear scan.
// The upper bound shrinks to the closest hit found so far.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BackgroundColors returns the sky gradient colors
func (s *Scene) BackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// Validate checks the camera and every shape before the first pass
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		}
		if err := shape.Validate(); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return nil
}

// aspectRatio returns width/height, or an error for non-positive sizes
func aspectRatio(width, height int) (float64, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidScene, width, height)
	}
	ratio := float64(width) / float64(height)
	if math.IsInf(ratio, 0) {
		return 0, fmt.Errorf("%w: image size %dx%d", ErrInvalidScene, width, height)
	}
	return ratio, nil
}
