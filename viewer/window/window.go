// Package window shows a render session live in an ebiten window.
// Each frame advances the session by one tick, so the UI never waits on workers.
package window

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-sphere-tracer/pkg/imageio"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Options configures the viewer window
type Options struct {
	Title   string
	Scale   int    // Window pixels per image pixel
	OutPath string // Where Space saves a snapshot
}

// Run opens a window for session and blocks until it is closed.
// The session is closed on return.
func Run(session *renderer.Session, opts Options) error {
	config := session.Config()
	scale := max(1, opts.Scale)

	v := &viewer{
		session: session,
		opts:    opts,
		width:   config.Width,
		height:  config.Height,
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(config.Width*scale, config.Height*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(v)
	session.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type viewer struct {
	session       *renderer.Session
	opts          Options
	width, height int

	frame   *ebiten.Image
	dirty   bool   // A new display buffer is waiting for upload
	shown   int    // Samples in the uploaded frame
	message string // Last export result
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.export()
	}

	if v.session.State() == renderer.StateFailed {
		// Keep the last good frame on screen
		return nil
	}
	ready, err := v.session.Tick()
	if err != nil {
		v.session.Config().Logger.Error("rendering stopped", "err", err)
		return nil
	}
	if ready {
		v.dirty = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.frame == nil {
		v.frame = ebiten.NewImage(v.width, v.height)
	}

	if v.dirty {
		if d, err := v.session.Display(); err == nil {
			v.frame.WritePixels(d.Pix)
			v.shown = d.Samples
		}
		v.dirty = false
	}

	screen.DrawImage(v.frame, nil)
	ebitenutil.DebugPrint(screen, v.status())
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func (v *viewer) status() string {
	if err := v.session.Err(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	stats := v.session.Stats()
	s := fmt.Sprintf("%d spp (showing %d)  %.0f samples/s", stats.Samples, v.shown, stats.SamplesPerSecond())
	if v.message != "" {
		s += "\n" + v.message
	}
	return s
}

// export saves a snapshot of every completed pass
func (v *viewer) export() {
	img, err := v.session.Image()
	if err == nil {
		err = imageio.Save(v.opts.OutPath, img)
	}
	if err != nil {
		v.message = fmt.Sprintf("save failed: %v", err)
		v.session.Config().Logger.Warn("export failed", "path", v.opts.OutPath, "err", err)
		return
	}
	v.message = "saved " + v.opts.OutPath
	v.session.Config().Logger.Info("exported snapshot", "path", v.opts.OutPath, "samples", v.session.Samples())
}
