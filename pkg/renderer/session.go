package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/scene"
)

var (
	// ErrNotReady is returned when no pass has completed yet
	ErrNotReady = errors.New("no completed pass")

	// ErrSessionClosed is returned by Tick after Close
	ErrSessionClosed = errors.New("render session closed")
)

// State is the phase of a Session's pass cycle
type State int

const (
	StateIdle        State = iota // Waiting to plan the next pass
	StateDispatching              // Bands planned, workers not yet started
	StateInFlight                 // Workers running
	StateCollecting               // Workers done, result not yet folded in
	StateFailed                   // Terminal: a pass failed or the session was closed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateInFlight:
		return "in-flight"
	case StateCollecting:
		return "collecting"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session drives progressive rendering of a scene: every pass adds one sample
// per pixel to a shared accumulator and the display is rebuilt on a fixed cadence.
//
// A Session is driven from a single goroutine (a UI loop or RenderProgressive).
// Its workers are internal; Tick never blocks on them.
type Session struct {
	scene   *scene.Scene
	config  Config
	acc     *Accumulator
	bands   []Band
	state   State
	samples int
	current *pass
	display *Display
	err     error

	ctx    context.Context
	cancel context.CancelFunc

	created  time.Time
	lastPass time.Duration
}

// NewSession creates an idle session. The scene must already be validated.
func NewSession(sc *scene.Scene, config Config) (*Session, error) {
	if sc == nil || sc.Camera == nil {
		return nil, fmt.Errorf("%w: scene has no camera", ErrInvalidConfig)
	}
	config, err := config.normalize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		scene:   sc,
		config:  config,
		acc:     NewAccumulator(config.Width, config.Height),
		bands:   NewBands(config.Width, config.Workers),
		state:   StateIdle,
		ctx:     ctx,
		cancel:  cancel,
		created: time.Now(),
	}

	config.Logger.Debug("render session created",
		"width", config.Width, "height", config.Height,
		"bands", len(s.bands), "max_depth", config.MaxDepth, "seed", config.Seed)
	return s, nil
}

// Tick advances the session by at most one state transition and never blocks.
// It reports true when the display was rebuilt during this call.
// Once a pass fails every later call returns the same error.
func (s *Session) Tick() (bool, error) {
	switch s.state {
	case StateIdle:
		s.state = StateDispatching
		return false, nil

	case StateDispatching:
		number := s.samples + 1
		s.config.Logger.Debug("dispatching pass", "pass", number, "bands", len(s.bands))
		s.current = startPass(s.ctx, number, s.bands, passJob{
			scene:      s.scene,
			integrator: s.config.Integrator,
			acc:        s.acc,
			seed:       s.config.Seed,
		})
		s.state = StateInFlight
		return false, nil

	case StateInFlight:
		if s.current.finished() {
			s.state = StateCollecting
		}
		return false, nil

	case StateCollecting:
		return s.collect()

	case StateFailed:
		return false, s.err

	default:
		return false, fmt.Errorf("unknown session state %v", s.state)
	}
}

// collect folds a finished pass into the sample count and refreshes the display on cadence
func (s *Session) collect() (bool, error) {
	p := s.current
	s.current = nil

	if p.err != nil {
		s.fail(fmt.Errorf("pass %d: %w", p.number, p.err))
		return false, s.err
	}

	s.samples++
	s.lastPass = time.Since(p.started)
	s.state = StateIdle

	s.config.Logger.Info("pass complete", "pass", s.samples, "duration", s.lastPass)

	if s.samples == 1 || s.samples%s.config.RefreshEvery == 0 {
		s.display = buildDisplay(s.acc, s.samples)
		s.config.Logger.Debug("display refreshed", "samples", s.samples)
		return true, nil
	}
	return false, nil
}

func (s *Session) fail(err error) {
	s.state = StateFailed
	s.err = err
	s.cancel()
	s.config.Logger.Error("render session failed", "err", err)
}

// RenderPass drives the session until one more pass is collected, waiting on the
// workers instead of polling. It reports whether the display was rebuilt.
func (s *Session) RenderPass(ctx context.Context) (bool, error) {
	target := s.samples + 1
	for s.samples < target {
		if s.state == StateInFlight {
			if err := s.current.wait(ctx); err != nil {
				return false, err
			}
		}
		ready, err := s.Tick()
		if err != nil {
			return false, err
		}
		if ready {
			return true, nil
		}
	}
	return false, nil
}

// Close cancels any in-flight pass and waits for its workers to exit.
// The session is unusable afterwards.
func (s *Session) Close() {
	s.cancel()
	if s.current != nil {
		<-s.current.done
		s.current = nil
	}
	if s.state != StateFailed {
		s.state = StateFailed
		s.err = ErrSessionClosed
	}
}

// State returns the current phase of the pass cycle
func (s *Session) State() State { return s.state }

// Samples returns the number of completed passes
func (s *Session) Samples() int { return s.samples }

// Err returns the error that moved the session to StateFailed, if any
func (s *Session) Err() error { return s.err }

// Config returns the normalized configuration
func (s *Session) Config() Config { return s.config }

// Bands returns the column partition used for every pass
func (s *Session) Bands() []Band { return s.bands }

// Display returns the most recently refreshed frame
func (s *Session) Display() (*Display, error) {
	if s.samples == 0 || s.display == nil {
		return nil, ErrNotReady
	}
	return s.display, nil
}

// Snapshot builds a fresh frame from every completed pass, ignoring the refresh cadence
func (s *Session) Snapshot() (*Display, error) {
	if s.samples == 0 {
		return nil, ErrNotReady
	}
	return buildDisplay(s.acc, s.samples), nil
}

// Image returns a snapshot as an image.RGBA
func (s *Session) Image() (*image.RGBA, error) {
	d, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return d.Image(), nil
}

// Stats returns the current render statistics
func (s *Session) Stats() RenderStats {
	return RenderStats{
		Width:       s.config.Width,
		Height:      s.config.Height,
		Workers:     len(s.bands),
		Samples:     s.samples,
		LastPass:    s.lastPass,
		Elapsed:     time.Since(s.created),
		TotalPixels: s.config.Width * s.config.Height,
		State:       s.state,
	}
}
