package renderer

import (
	"context"
	"image"
)

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Set when the display was refreshed and on the last pass
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders up to passes passes with channel-based communication.
// The session belongs to the returned goroutine until the pass channel closes.
// Both channels are closed when rendering stops; at most one error is sent.
func (s *Session) RenderProgressive(ctx context.Context, passes int) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		s.config.Logger.Info("starting progressive render", "passes", passes, "bands", len(s.bands))

		for pass := 1; pass <= passes; pass++ {
			// Check if the caller gave up before starting this pass
			select {
			case <-ctx.Done():
				s.config.Logger.Info("render cancelled", "before_pass", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			ready, err := s.RenderPass(ctx)
			if err != nil {
				errChan <- err
				return
			}

			isLast := pass == passes
			result := PassResult{
				PassNumber: s.Samples(),
				Stats:      s.Stats(),
				IsLast:     isLast,
			}
			switch {
			case ready:
				// collect just rebuilt the display
				d, err := s.Display()
				if err != nil {
					errChan <- err
					return
				}
				result.Image = d.Image()
			case isLast:
				img, err := s.Image()
				if err != nil {
					errChan <- err
					return
				}
				result.Image = img
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
