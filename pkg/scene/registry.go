package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned by Build for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	build       func(aspect float64) (*Scene, error)
}

var builtins = map[string]SceneInfo{
	"default": {
		Name:        "default",
		Description: "Random sphere field on a fuzzy metal ground with two mirrors",
		build: func(aspect float64) (*Scene, error) {
			return NewDefaultScene(aspect, DefaultSeed)
		},
	},
	"simple": {
		Name:        "simple",
		Description: "One white diffuse sphere in front of the camera",
		build:       NewSimpleScene,
	},
	"metals": {
		Name:        "metals",
		Description: "Matte, mirror and fuzzy metal spheres on a diffuse ground",
		build:       NewMetalsScene,
	},
}

// List returns the built-in scenes sorted by name
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// Names returns the built-in scene names sorted alphabetically
func Names() []string {
	scenes := List()
	names := make([]string, len(scenes))
	for i, info := range scenes {
		names[i] = info.Name
	}
	return names
}

// Build creates the named scene for an image of the given size and validates it
func Build(name string, width, height int) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	aspect, err := aspectRatio(width, height)
	if err != nil {
		return nil, err
	}

	s, err := info.build(aspect)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return s, nil
}
