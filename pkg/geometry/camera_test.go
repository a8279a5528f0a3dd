package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
	}
}

func TestCamera_GetRayCorners(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	// fov 90 => viewport height 2, width 4, focal distance 1
	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
		{"upper left", 0, 1, core.NewVec3(-2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t)
			if !ray.Origin.Equals(core.NewVec3(0, 0, 0)) {
				t.Errorf("Expected ray from eye, got origin %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_LookAtArbitraryTarget(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(-3, 7.5, 5),
		LookAt:      core.NewVec3(0, 2, -1.2),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        100,
		AspectRatio: 16.0 / 9.0,
	}
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	expected := config.LookAt.Subtract(config.Center).Normalize()
	center := camera.GetRay(0.5, 0.5).Direction.Normalize()
	if center.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Center ray should point at target: expected %v, got %v", expected, center)
	}
	if camera.Forward().Subtract(expected).Length() > 1e-9 {
		t.Errorf("Forward should point at target: expected %v, got %v", expected, camera.Forward())
	}

	// Rays toward the top of the viewport should tilt up relative to the bottom
	top := camera.GetRay(0.5, 1).Direction.Normalize()
	bottom := camera.GetRay(0.5, 0).Direction.Normalize()
	if top.Y <= bottom.Y {
		t.Errorf("Expected top ray to point higher than bottom ray: top=%v bottom=%v", top, bottom)
	}
}

func TestCamera_FieldOfView(t *testing.T) {
	config := testCameraConfig()
	config.VFov = 60
	config.AspectRatio = 1
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	top := camera.GetRay(0.5, 1).Direction.Normalize()
	bottom := camera.GetRay(0.5, 0).Direction.Normalize()
	angle := math.Acos(top.Dot(bottom)) * 180 / math.Pi
	if math.Abs(angle-60) > 1e-9 {
		t.Errorf("Expected vertical angle 60 degrees, got %f", angle)
	}
}

func TestNewCamera_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CameraConfig)
		wantErr error
	}{
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }, ErrInvalidCamera},
		{"fov 180", func(c *CameraConfig) { c.VFov = 180 }, ErrInvalidCamera},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }, ErrInvalidCamera},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }, ErrInvalidCamera},
		{"eye equals target", func(c *CameraConfig) { c.LookAt = c.Center }, core.ErrDegenerateVector},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }, core.ErrDegenerateVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			tt.modify(&config)
			camera, err := NewCamera(config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if camera != nil {
				t.Error("Expected nil camera on error")
			}
		})
	}
}
