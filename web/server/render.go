package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/export"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// consoleBuffer bounds the log lines kept per render; extra lines are dropped
const consoleBuffer = 256

var renderCounter atomic.Int64

// RenderReport describes a finished render
type RenderReport struct {
	RenderID  string               `json:"renderId"`
	Scene     string               `json:"scene"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	Stats     renderer.RenderStats `json:"stats"`
	ElapsedMs int64                `json:"elapsedMs"`
	Console   []ConsoleMessage     `json:"console"`
	Dropped   int64                `json:"droppedLines,omitempty"` // Lines that did not fit the console queue
	ImageData string               `json:"imageData,omitempty"`    // Base64 encoded PNG, stream only
	Error     string               `json:"error,omitempty"`
}

// SSEEvent represents a single server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// renderResult carries the outcome of a render goroutine
type renderResult struct {
	frame *renderer.FrameBuffer
	stats renderer.RenderStats
	err   error
}

func nextRenderID() string {
	return fmt.Sprintf("render-%d", renderCounter.Add(1))
}

// renderScene renders sceneObj with the request's worker settings
func renderScene(ctx context.Context, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) renderResult {
	config := renderer.Config{
		NumWorkers:       req.Workers,
		PruneZeroWeights: req.Prune,
	}
	frame, stats, err := renderer.NewRaytracer(sceneObj, config, logger).Render(ctx)
	return renderResult{frame: frame, stats: stats, err: err}
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := nextRenderID()
	console := NewConsole(renderID, 0)

	sceneObj, err := s.createScene(req, console)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := renderScene(r.Context(), sceneObj, req, console)
	if result.err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", result.err))
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, req.Format, result.frame, req.exportOptions()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(req.Format))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Id", renderID)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderReport renders a scene and returns statistics and log lines as JSON
func (s *Server) handleRenderReport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := nextRenderID()
	console := NewConsole(renderID, consoleBuffer)

	sceneObj, err := s.createScene(req, console)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	result := renderScene(r.Context(), sceneObj, req, console)

	report := RenderReport{
		RenderID:  renderID,
		Scene:     req.Scene,
		Width:     sceneObj.Width,
		Height:    sceneObj.Height,
		Stats:     result.stats,
		ElapsedMs: time.Since(startTime).Milliseconds(),
		Console:   console.Drain(),
		Dropped:   console.Dropped(),
	}
	status := http.StatusOK
	if result.err != nil {
		report.Error = result.err.Error()
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

// handleRenderStream renders a scene while streaming log lines via SSE, then sends
// the report with a PNG of the frame
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, flusher, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	renderID := nextRenderID()
	console := NewConsole(renderID, consoleBuffer)

	sceneObj, err := s.createScene(req, console)
	if err != nil {
		s.sendSSEEvent(w, flusher, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	ctx := r.Context()
	startTime := time.Now()
	done := make(chan renderResult, 1)
	go func() {
		done <- renderScene(ctx, sceneObj, req, console)
	}()

	// This goroutine is the only writer to w
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-console.Messages():
			s.sendConsoleEvent(w, flusher, msg)

		case result := <-done:
			for _, msg := range console.Drain() {
				s.sendConsoleEvent(w, flusher, msg)
			}
			if result.err != nil {
				s.sendSSEEvent(w, flusher, SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", result.err)})
				return
			}

			report := RenderReport{
				RenderID:  renderID,
				Scene:     req.Scene,
				Width:     sceneObj.Width,
				Height:    sceneObj.Height,
				Stats:     result.stats,
				ElapsedMs: time.Since(startTime).Milliseconds(),
				Console:   []ConsoleMessage{},
				Dropped:   console.Dropped(),
			}
			imageData, err := frameToBase64PNG(result.frame, req.exportOptions())
			if err != nil {
				s.sendSSEEvent(w, flusher, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode image: %v", err)})
				return
			}
			report.ImageData = imageData

			data, err := json.Marshal(report)
			if err != nil {
				s.sendSSEEvent(w, flusher, SSEEvent{Type: "error", Data: err.Error()})
				return
			}
			s.sendSSEEvent(w, flusher, SSEEvent{Type: "complete", Data: string(data)})
			return
		}
	}
}

// setSSEHeaders sets the standard SSE headers
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendConsoleEvent forwards a log line as a console event
func (s *Server) sendConsoleEvent(w http.ResponseWriter, flusher http.Flusher, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, flusher, SSEEvent{Type: "console", Data: string(data)})
}

// sendSSEEvent writes one event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
	flusher.Flush()
}

// frameToBase64PNG encodes the frame as a base64 PNG
func frameToBase64PNG(frame *renderer.FrameBuffer, opts export.Options) (string, error) {
	var buf bytes.Buffer
	if err := export.Encode(&buf, "png", frame, opts); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
