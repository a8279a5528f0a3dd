package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material != testMaterial {
				t.Errorf("Expected hit record to carry the sphere material, got %v", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Near root excluded, far root accepted
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far root to be accepted")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got %f", hit.T)
	}
}

// TestSphere_Hit_RandomRays checks the geometric invariants over random ray/sphere pairs
func TestSphere_Hit_RandomRays(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)
	const epsilon = 1e-7

	hits := 0
	for i := 0; i < 5000; i++ {
		center := core.RandomInUnitSphere(sampler).Multiply(5)
		radius := 0.1 + 2*random.Float64()
		sphere := NewSphere(center, radius, testMaterial)

		origin := core.RandomInUnitSphere(sampler).Multiply(10)
		direction := core.RandomInUnitSphere(sampler)
		if direction.NearZero() {
			continue
		}
		ray := core.NewRay(origin, direction)

		// Reference discriminant
		oc := origin.Subtract(center)
		halfB := oc.Dot(direction)
		disc := halfB*halfB - direction.LengthSquared()*(oc.LengthSquared()-radius*radius)

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if disc < 0 {
			if isHit {
				t.Fatalf("Negative discriminant %g but got hit at t=%f", disc, hit.T)
			}
			continue
		}
		if !isHit {
			continue
		}
		hits++

		if hit.T < 0.001 {
			t.Fatalf("Hit t=%g below tMin", hit.T)
		}
		if d := hit.Point.Subtract(center).Length(); math.Abs(d-radius) > epsilon*math.Max(1, radius) {
			t.Fatalf("Hit point distance %g differs from radius %g", d, radius)
		}
		if l := hit.Normal.Length(); math.Abs(l-1) > epsilon {
			t.Fatalf("Hit normal length %g, expected 1", l)
		}
		if d := hit.Normal.Dot(direction); d > 0 {
			t.Fatalf("Hit normal %v not oriented against ray direction %v (dot=%g)", hit.Normal, direction, d)
		}
	}

	if hits == 0 {
		t.Fatal("Expected some random rays to hit")
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sphere  *Sphere
		wantErr error
	}{
		{"valid", NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial), nil},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, testMaterial), ErrInvalidSphere},
		{"negative radius", NewSphere(core.NewVec3(0, 0, 0), -1, testMaterial), ErrInvalidSphere},
		{"nan radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN(), testMaterial), ErrInvalidSphere},
		{"no material", NewSphere(core.NewVec3(0, 0, 0), 1, nil), ErrInvalidSphere},
		{"bad material", NewSphere(core.NewVec3(0, 0, 0), 1, material.Metal{Albedo: core.NewVec3(1, 1, 1), Fuzz: 3}), material.ErrInvalidMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
