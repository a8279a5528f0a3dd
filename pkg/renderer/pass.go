package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// ErrWorkerFailed is returned when a band worker panics mid-pass
var ErrWorkerFailed = errors.New("render worker failed")

// passJob holds everything a band worker reads. All of it is immutable during a pass
// except the accumulator, which guards itself.
type passJob struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	acc        *Accumulator
	seed       int64
}

// pass is one in-flight round of sampling: one goroutine per band.
// err is written before done is closed and must only be read after.
type pass struct {
	number  int
	started time.Time
	done    chan struct{}
	err     error
}

// startPass launches one worker per band and returns immediately
func startPass(ctx context.Context, number int, bands []Band, job passJob) *pass {
	p := &pass{
		number:  number,
		started: time.Now(),
		done:    make(chan struct{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, band := range bands {
		g.Go(func() error {
			return renderBand(gctx, number, band, job)
		})
	}

	go func() {
		p.err = g.Wait()
		close(p.done)
	}()

	return p
}

// finished reports whether every worker of the pass has returned
func (p *pass) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// wait blocks until the pass finishes or ctx is done
func (p *pass) wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// renderBand traces one sample per pixel for the band's columns and merges the
// result into the accumulator in a single locked step.
// Rows are traced bottom-up (j=0 is the bottom of the image) and stored top-down.
func renderBand(ctx context.Context, number int, band Band, job passJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pass %d band %d: %v", ErrWorkerFailed, number, band.Index, r)
		}
	}()

	width, height := job.acc.Width(), job.acc.Height()
	bw := band.Width()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(bandSeed(job.seed, number, band.Index))))
	colors := make([]core.Vec3, bw*height)

	for i := band.Start; i < band.End; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := 0; j < height; j++ {
			u := (float64(i) + sampler.Get1D()) / float64(width)
			v := (float64(j) + sampler.Get1D()) / float64(height)

			ray := job.scene.Camera.GetRay(u, v)
			y := height - 1 - j
			colors[y*bw+(i-band.Start)] = job.integrator.RayColor(ray, job.scene, sampler)
		}
	}

	job.acc.AddBand(band, colors)
	return nil
}

// bandSeed derives a distinct random stream for every (pass, band) pair
func bandSeed(seed int64, number, band int) int64 {
	h := uint64(seed)
	h = splitmix(h ^ uint64(number))
	h = splitmix(h ^ uint64(band))
	return int64(h >> 1)
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
