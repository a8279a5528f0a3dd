package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/imageio"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	Passes  int   `json:"passes"`  // Passes to render, one sample per pixel each
	Depth   int   `json:"depth"`   // Maximum bounce depth
	Refresh int   `json:"refresh"` // Send an image every N passes
	Seed    int64 `json:"seed"`
}

// PassUpdate is sent after every completed pass
type PassUpdate struct {
	PassNumber       int     `json:"passNumber"`
	TotalPasses      int     `json:"totalPasses"`
	ImageData        string  `json:"imageData,omitempty"` // Base64 encoded PNG, on refresh passes only
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	IsComplete       bool    `json:"isComplete"`
}

// sseEvent is one Server-Sent Event queued for the writer goroutine
type sseEvent struct {
	Type string
	Data string
}

// handleRender streams a progressive render as SSE events:
// "pass" per completed pass, "console" for log lines, then "complete" or "error".
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := slog.New(newConsoleHandler(s.logger.Handler(), consoleChan)).With("render", renderID)

	session, err := s.newSession(req, logger)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer session.Close()

	setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns w from here on
	events := make(chan sseEvent, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, events)
	}()

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, events)
	}()

	streamRender(ctx, session, req, logger, events)

	close(consoleChan)
	<-consoleDone
	close(events)
	<-writerDone
}

// newSession builds the requested scene and a session that logs through logger
func (s *Server) newSession(req *RenderRequest, logger *slog.Logger) (*renderer.Session, error) {
	sc, err := scene.Build(req.Scene, req.Width, req.Height)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.Workers = s.workers
	config.MaxDepth = req.Depth
	config.RefreshEvery = req.Refresh
	config.Seed = req.Seed
	config.Logger = logger
	return renderer.NewSession(sc, config)
}

// streamRender runs the render and queues one event per pass
func streamRender(ctx context.Context, session *renderer.Session, req *RenderRequest, logger *slog.Logger, events chan<- sseEvent) {
	start := time.Now()
	logger.Info("render started", "scene", req.Scene, "width", req.Width, "height", req.Height, "passes", req.Passes)

	passChan, errChan := session.RenderProgressive(ctx, req.Passes)
	for result := range passChan {
		update := PassUpdate{
			PassNumber:       result.PassNumber,
			TotalPasses:      req.Passes,
			ElapsedMs:        time.Since(start).Milliseconds(),
			SamplesPerSecond: result.Stats.SamplesPerSecond(),
			IsComplete:       result.IsLast,
		}
		if result.Image != nil {
			data, err := imageToBase64PNG(result.Image)
			if err != nil {
				logger.Warn("failed to encode pass image", "pass", result.PassNumber, "err", err)
			} else {
				update.ImageData = data
			}
		}
		sendJSON(ctx, events, "pass", update)
	}

	if err := <-errChan; err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// Client went away; nobody is listening
			return
		}
		logger.Error("render failed", "err", err)
		send(ctx, events, sseEvent{Type: "error", Data: "Rendering failed: " + err.Error()})
		return
	}

	logger.Info("render complete", "passes", session.Samples(), "elapsed", time.Since(start).Round(time.Millisecond))
	send(ctx, events, sseEvent{Type: "complete", Data: "Rendering completed"})
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	sceneReq, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}

	req := &RenderRequest{SceneRequest: sceneReq}
	if req.Passes, err = parseIntParam(values, "passes", 100, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", renderer.DefaultConfig().MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Refresh, err = parseIntParam(values, "refresh", 5, 1, maxPasses); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", int(renderer.DefaultConfig().Seed), 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes queued events until the channel is closed.
// After the client disconnects it keeps draining so senders never block.
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan sseEvent) {
	flusher, _ := w.(http.Flusher)
	broken := false

	for event := range events {
		if broken || ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			broken = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards log lines to the SSE stream until consoleChan is closed
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- sseEvent) {
	for msg := range consoleChan {
		sendJSON(ctx, events, "console", msg)
	}
}

func sendJSON(ctx context.Context, events chan<- sseEvent, eventType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	send(ctx, events, sseEvent{Type: eventType, Data: string(data)})
}

func send(ctx context.Context, events chan<- sseEvent, event sseEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, imageio.FormatPNG, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
