package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	ShapeIndex   int            `json:"shapeIndex"` // Position in the scene's shape list, -1 on a miss
	MaterialType string         `json:"materialType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties,omitempty"`
	Camera       CameraInfo     `json:"camera"`
}

// CameraInfo describes the viewpoint the inspection ray was cast from
type CameraInfo struct {
	Origin  [3]float64 `json:"origin"`
	Forward [3]float64 `json:"forward"`
	VFov    float64    `json:"vfov"`
}

func cameraInfo(sc *scene.Scene) CameraInfo {
	origin, forward := sc.Camera.Origin(), sc.Camera.Forward()
	return CameraInfo{
		Origin:  [3]float64{origin.X, origin.Y, origin.Z},
		Forward: [3]float64{forward.X, forward.Y, forward.Z},
		VFov:    sc.CameraConfig.VFov,
	}
}

// materialInfo describes a material for the inspector
func materialInfo(mat material.Material) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo.X, m.Albedo.Y, m.Albedo.Z)
		return "lambertian", properties

	case material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo.X, m.Albedo.Y, m.Albedo.Z)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	default:
		return "unknown", properties
	}
}

func hexColor(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255))
}

// inspectPixel casts a ray through the center of display pixel (x, y), top-left origin
func inspectPixel(sc *scene.Scene, width, height, x, y int) InspectResponse {
	u := (float64(x) + 0.5) / float64(width)
	v := (float64(height-1-y) + 0.5) / float64(height)
	ray := sc.Camera.GetRay(u, v)

	hit, isHit := sc.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return InspectResponse{Hit: false, ShapeIndex: -1, Camera: cameraInfo(sc)}
	}

	materialType, materialProps := materialInfo(hit.Material)
	response := InspectResponse{
		Hit:          true,
		ShapeIndex:   -1,
		MaterialType: materialType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties:   map[string]any{"material": materialProps},
		Camera:       cameraInfo(sc),
	}

	// The scene query doesn't say which shape it hit, so find the one at the same t
	for i, shape := range sc.Shapes {
		shapeHit, ok := shape.Hit(ray, 0.001, hit.T+0.001)
		if !ok || shapeHit.T != hit.T {
			continue
		}
		response.ShapeIndex = i
		if sphere, ok := shape.(*geometry.Sphere); ok {
			response.Properties["geometry"] = map[string]any{
				"center": [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z},
				"radius": sphere.Radius,
			}
		}
		break
	}
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneParams(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sc, err := scene.Build(req.Scene, req.Width, req.Height)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sc, req.Width, req.Height, pixelX, pixelY))
}
