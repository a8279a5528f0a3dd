// Command viewer renders a scene progressively in a window.
// Space saves the current image, Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df07/go-sphere-tracer/pkg/imageio"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
	"github.com/df07/go-sphere-tracer/viewer/window"
)

func main() {
	defaults := renderer.DefaultConfig()

	sceneName := flag.String("scene", "default", "Scene name")
	width := flag.Int("width", 800, "Image width in pixels")
	height := flag.Int("height", 600, "Image height in pixels")
	workers := flag.Int("workers", 8, "Number of parallel column bands (0 = CPU count)")
	depth := flag.Int("depth", defaults.MaxDepth, "Maximum ray bounce depth")
	refresh := flag.Int("refresh", defaults.RefreshEvery, "Refresh the window every N passes")
	scale := flag.Int("scale", 1, "Window pixels per image pixel")
	seed := flag.Int64("seed", defaults.Seed, "Random seed")
	out := flag.String("out", "render.png", "Snapshot file written by Space (.png, .bmp, .tif)")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	renderer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*sceneName, *out, *scale, renderer.Config{
		Width:        *width,
		Height:       *height,
		Workers:      *workers,
		MaxDepth:     *depth,
		RefreshEvery: *refresh,
		Seed:         *seed,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sceneName, out string, scale int, config renderer.Config) error {
	if _, err := imageio.FormatFromPath(out); err != nil {
		return err
	}

	sc, err := scene.Build(sceneName, config.Width, config.Height)
	if err != nil {
		return err
	}

	session, err := renderer.NewSession(sc, config)
	if err != nil {
		return err
	}

	return window.Run(session, window.Options{
		Title:   fmt.Sprintf("Sphere Tracer - %s", sceneName),
		Scale:   scale,
		OutPath: out,
	})
}
