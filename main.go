package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/imageio"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene   string
	width   int
	height  int
	passes  int
	workers int
	depth   int
	seed    int64
	out     string
	verbose bool
	help    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	defaults := renderer.DefaultConfig()

	var opts options
	fs := flag.NewFlagSet("sphere-tracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.scene, "scene", "default", "Scene name (see -help)")
	fs.IntVar(&opts.width, "width", defaults.Width, "Image width in pixels")
	fs.IntVar(&opts.height, "height", defaults.Height, "Image height in pixels")
	fs.IntVar(&opts.passes, "passes", 100, "Number of progressive passes (samples per pixel)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel column bands (0 = CPU count)")
	fs.IntVar(&opts.depth, "depth", defaults.MaxDepth, "Maximum ray bounce depth")
	fs.Int64Var(&opts.seed, "seed", defaults.Seed, "Random seed")
	fs.StringVar(&opts.out, "out", "", "Output file; .png, .bmp, .tif or .tiff (default output/<scene>/render_<timestamp>.png)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	err := fs.Parse(args)
	return opts, fs, err
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Progressive Sphere Tracer")
	fmt.Fprintln(w, "Usage: sphere-tracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.Name, info.Description)
	}
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}
	if opts.passes <= 0 {
		return fmt.Errorf("passes must be positive, got %d", opts.passes)
	}

	outPath := opts.out
	if outPath == "" {
		outPath = defaultOutputPath(opts.scene, time.Now())
	}
	// Fail on a bad extension before spending time rendering
	if _, err := imageio.FormatFromPath(outPath); err != nil {
		return err
	}

	logger := newLogger(stderr, opts.verbose)
	renderer.SetLogger(logger)
	defer renderer.SetLogger(nil)

	sc, err := scene.Build(opts.scene, opts.width, opts.height)
	if err != nil {
		return err
	}

	config := renderer.DefaultConfig()
	config.Width = opts.width
	config.Height = opts.height
	config.Workers = opts.workers
	config.MaxDepth = opts.depth
	config.Seed = opts.seed

	session, err := renderer.NewSession(sc, config)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Fprintf(stdout, "Rendering %q at %dx%d, %d passes on %d bands...\n",
		opts.scene, opts.width, opts.height, opts.passes, len(session.Bands()))

	start := time.Now()
	passChan, errChan := session.RenderProgressive(ctx, opts.passes)

	var img *image.RGBA
	for result := range passChan {
		if result.Image != nil {
			img = result.Image
		}
		if result.IsLast || result.PassNumber%10 == 0 {
			fmt.Fprintf(stdout, "Pass %d/%d (%.0f samples/s)\n",
				result.PassNumber, opts.passes, result.Stats.SamplesPerSecond())
		}
	}

	renderErr := <-errChan
	switch {
	case renderErr == nil:
	case errors.Is(renderErr, context.Canceled) && session.Samples() > 0:
		// Interrupted: keep whatever has converged so far
		logger.Warn("render interrupted", "samples", session.Samples())
		if img, err = session.Image(); err != nil {
			return err
		}
	default:
		return renderErr
	}

	fmt.Fprintf(stdout, "Render completed in %v (%d samples per pixel)\n",
		time.Since(start).Round(time.Millisecond), session.Samples())

	if err := imageio.Save(outPath, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", outPath)
	return nil
}
