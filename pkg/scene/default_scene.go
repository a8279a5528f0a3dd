package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// DefaultSeed seeds the random sphere field of the default scene
const DefaultSeed = 42

// NewDefaultScene creates a field of random spheres on a fuzzy metal ground,
// with two large mirrors, viewed through a wide-angle lens.
func NewDefaultScene(aspect float64, seed int64) (*Scene, error) {
	s, err := New(geometry.CameraConfig{
		Center:      core.NewVec3(-3, 7.5, 5),
		LookAt:      core.NewVec3(0, 2, -1.2),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        100,
		AspectRatio: aspect,
	})
	if err != nil {
		return nil, err
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))

	// Ground
	s.AddSphere(core.NewVec3(0, -1000, -1.2), 1000, material.NewMetal(core.NewVec3(0.4, 0.4, 0.4), 1.0))

	for i := -9; i <= 9; i++ {
		for j := -9; j <= 9; j++ {
			radius := core.RandomRange(sampler, 0.3, 0.6)

			var mat material.Material
			if sampler.Get1D() < 0.65 {
				mat = material.NewLambertian(sampler.Get3D())
			} else {
				mat = material.NewMetal(sampler.Get3D(), sampler.Get1D())
			}

			center := core.NewVec3(
				float64(i)*2.3+0.9*sampler.Get1D(),
				radius,
				float64(j)*2.3+0.9*sampler.Get1D()-1.2,
			)
			s.AddSphere(center, radius, mat)
		}
	}

	mirror := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	s.AddSphere(core.NewVec3(0, 2, -1.2), 2, mirror)
	s.AddSphere(core.NewVec3(8, 4, -1.2), 4, mirror)

	return s, nil
}

// NewSimpleScene creates a single white diffuse sphere straight ahead of the camera
func NewSimpleScene(aspect float64) (*Scene, error) {
	s, err := New(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: aspect,
	})
	if err != nil {
		return nil, err
	}

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(1, 1, 1)))
	return s, nil
}

// NewMetalsScene creates matte, mirror and fuzzy metal spheres on a diffuse ground
func NewMetalsScene(aspect float64) (*Scene, error) {
	s, err := New(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.5, 1.5),
		LookAt:      core.NewVec3(0, 0.25, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        50,
		AspectRatio: aspect,
	})
	if err != nil {
		return nil, err
	}

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.6))

	return s, nil
}
