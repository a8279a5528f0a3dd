package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// createTestScene creates a simple scene with a sphere for testing
func createTestScene(t *testing.T, mat material.Material) *scene.Scene {
	t.Helper()
	s, err := scene.New(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 1,
	})
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, mat)
	return s
}

// MockMaterial implements material.Material for testing
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool)
}

func (m MockMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return m.scatterFn(rayIn, hit)
}

func (m MockMaterial) Validate() error { return nil }

// TestPathTracingDepthTermination tests that ray depth is properly limited
func TestPathTracingDepthTermination(t *testing.T) {
	scenes := map[string]*scene.Scene{
		"lambertian": createTestScene(t, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
		"metal":      createTestScene(t, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.2)),
		"empty":      createTestScene(t, material.NewLambertian(core.NewVec3(1, 1, 1))),
	}
	scenes["empty"].Shapes = nil

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	for name, sc := range scenes {
		t.Run(name, func(t *testing.T) {
			integrator := NewPathTracingIntegrator(0)
			for i := 0; i < 50; i++ {
				dir := core.RandomInUnitSphere(sampler)
				color := integrator.RayColor(core.NewRay(core.Vec3{}, dir), sc, sampler)
				if color != (core.Vec3{}) {
					t.Fatalf("Expected black color for depth 0, got %v", color)
				}
			}
		})
	}

	// Positive depth should gather sky light through the diffuse sphere
	integrator := NewPathTracingIntegrator(3)
	color := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), scenes["lambertian"], sampler)
	if color == (core.Vec3{}) {
		t.Error("Expected non-black color for positive depth")
	}
}

func TestPathTracingBackgroundGradient(t *testing.T) {
	sc := createTestScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	sc.Shapes = nil
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	integrator := NewPathTracingIntegrator(DefaultMaxDepth)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 5, 0), scene.DefaultTopColor},
		{"straight down", core.NewVec3(0, -2, 0), scene.DefaultBottomColor},
		{"horizon", core.NewVec3(1, 0, 0), scene.DefaultTopColor.Add(scene.DefaultBottomColor).Multiply(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := integrator.RayColor(core.NewRay(core.Vec3{}, tt.direction), sc, sampler)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracingAttenuationProduct(t *testing.T) {
	attenuation := core.NewVec3(0.5, 0.25, 1.0)
	mat := MockMaterial{
		scatterFn: func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool) {
			// Always bounce straight up into the sky
			return material.ScatterResult{
				Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
				Attenuation: attenuation,
			}, true
		},
	}
	sc := createTestScene(t, mat)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	got := NewPathTracingIntegrator(2).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler)
	expected := attenuation.MultiplyVec(scene.DefaultTopColor)
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected attenuation ⊙ sky = %v, got %v", expected, got)
	}

	// One bounce of budget: the scattered ray has nothing left and returns black
	got = NewPathTracingIntegrator(1).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler)
	if got != (core.Vec3{}) {
		t.Errorf("Expected black when the bounce exhausts depth, got %v", got)
	}
}

func TestPathTracingAbsorption(t *testing.T) {
	mat := MockMaterial{
		scatterFn: func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool) {
			return material.ScatterResult{}, false
		},
	}
	sc := createTestScene(t, mat)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	got := NewPathTracingIntegrator(DefaultMaxDepth).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler)
	if got != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", got)
	}
}

func TestPathTracingSelfIntersectionEpsilon(t *testing.T) {
	var seen []float64
	mat := MockMaterial{
		scatterFn: func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool) {
			seen = append(seen, hit.T)
			// Re-emit from the hit point along the tangent plane, grazing the surface
			return material.ScatterResult{
				Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
				Attenuation: core.NewVec3(1, 1, 1),
			}, true
		},
	}
	sc := createTestScene(t, mat)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	NewPathTracingIntegrator(10).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler)

	if len(seen) != 1 {
		t.Fatalf("Expected exactly one hit before escaping to the sky, got %d (%v)", len(seen), seen)
	}
	if math.Abs(seen[0]-0.5) > 1e-9 {
		t.Errorf("Expected first hit at t=0.5, got %f", seen[0])
	}
}

// TestPathTracingConcurrentUse runs the integrator from many goroutines with private samplers
func TestPathTracingConcurrentUse(t *testing.T) {
	sc := createTestScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	integrator := NewPathTracingIntegrator(DefaultMaxDepth)

	results := make(chan core.Vec3, 8)
	for g := 0; g < 8; g++ {
		go func(seed int64) {
			sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
			sum := core.Vec3{}
			for i := 0; i < 200; i++ {
				sum = sum.Add(integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), sc, sampler))
			}
			results <- sum
		}(int64(g))
	}

	for g := 0; g < 8; g++ {
		sum := <-results
		if sum.X <= 0 || math.IsNaN(sum.X) {
			t.Errorf("Expected positive finite radiance, got %v", sum)
		}
	}
}
