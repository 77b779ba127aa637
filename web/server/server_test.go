package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const testSceneJSON = `{
	"name": "Tiny Sphere",
	"group": "Tests",
	"materials": {"red": {"albedo": [1, 0, 0, 0], "diffuse_color": [1, 0, 0], "specular_exponent": 1, "refractive_index": 1}},
	"lights": [{"position": [0, 0, 0], "intensity": 1}],
	"shapes": {"spheres": [{"center": [0, 0, -10], "radius": 3, "material": "red"}]},
	"background_color": [0.2, 0.7, 0.8],
	"frame_width": 16,
	"frame_height": 12,
	"fov_in_degrees": 60,
	"max_reflect_depth": 1
}`

// newTestServer returns a server whose scenes directory holds tiny.json
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(scenePath, []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return NewServer(0, dir), scenePath
}

func get(t *testing.T, s *Server, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	s, scenePath := newTestServer(t)
	rec := get(t, s, "/api/scenes", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and Tests groups, got %+v", response.Groups)
	}
	if len(response.Groups[0].Scenes) != 2 {
		t.Errorf("Expected 2 built-in scenes first, got %+v", response.Groups[0])
	}
	fileGroup := response.Groups[1]
	if fileGroup.Name != "Tests" || len(fileGroup.Scenes) != 1 {
		t.Fatalf("Expected one scene in Tests, got %+v", fileGroup)
	}
	if fileGroup.Scenes[0].ID != scenePath || fileGroup.Scenes[0].Name != "Tiny Sphere" {
		t.Errorf("Unexpected scene info %+v", fileGroup.Scenes[0])
	}
}

func TestHandleRender_Image(t *testing.T) {
	s, scenePath := newTestServer(t)

	tests := []struct {
		name           string
		query          url.Values
		expectedWidth  int
		expectedHeight int
	}{
		{"built-in with size override", url.Values{"scene": {"default"}, "width": {"20"}, "height": {"10"}}, 20, 10},
		{"json scene", url.Values{"scene": {scenePath}, "workers": {"2"}}, 16, 12},
		{"pruned with gamma", url.Values{"scene": {scenePath}, "prune": {"true"}, "gamma": {"2.2"}}, 16, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render", tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %s", ct)
			}
			if rec.Header().Get("X-Render-Id") == "" {
				t.Error("Expected a render ID header")
			}

			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("Failed to decode PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.expectedWidth || img.Bounds().Dy() != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %v", tt.expectedWidth, tt.expectedHeight, img.Bounds())
			}
		})
	}
}

func TestHandleRender_Formats(t *testing.T) {
	s, _ := newTestServer(t)

	expected := map[string]string{
		"bmp":  "image/bmp",
		"tiff": "image/tiff",
		"ppm":  "image/x-portable-pixmap",
	}
	for format, contentType := range expected {
		rec := get(t, s, "/api/render", url.Values{"scene": {"default"}, "width": {"8"}, "height": {"8"}, "format": {format}})
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", format, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != contentType {
			t.Errorf("%s: expected %s, got %s", format, contentType, ct)
		}
	}

	rec := get(t, s, "/api/render", url.Values{"scene": {"default"}, "format": {"ppm"}, "width": {"2"}, "height": {"1"}})
	if !strings.HasPrefix(rec.Body.String(), "P6\n2 1\n255\n") {
		t.Errorf("Expected P6 header, got %q", rec.Body.String())
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	outside := filepath.Join(t.TempDir(), "outside.json")
	if err := os.WriteFile(outside, []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	tests := []struct {
		name  string
		query url.Values
	}{
		{"unknown scene", url.Values{"scene": {"nonexistent"}}},
		{"scene outside scenes dir", url.Values{"scene": {outside}}},
		{"relative escape", url.Values{"scene": {filepath.Join(s.scenesDir, "..", "outside.json")}}},
		{"bad format", url.Values{"format": {"exr"}}},
		{"width not a number", url.Values{"width": {"wide"}}},
		{"width too large", url.Values{"width": {"5000"}}},
		{"negative workers", url.Values{"workers": {"-1"}}},
		{"bad prune", url.Values{"prune": {"maybe"}}},
		{"gamma out of range", url.Values{"gamma": {"0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render", tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %v (%v)", body, err)
			}
		})
	}
}

func TestHandleRenderReport(t *testing.T) {
	s, scenePath := newTestServer(t)
	rec := get(t, s, "/api/render/report", url.Values{"scene": {scenePath}, "workers": {"3"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var report RenderReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	if report.Width != 16 || report.Height != 12 {
		t.Errorf("Expected 16x12, got %dx%d", report.Width, report.Height)
	}
	if report.Stats.Rays.CameraRays != 16*12 {
		t.Errorf("Expected %d camera rays, got %d", 16*12, report.Stats.Rays.CameraRays)
	}
	if report.Stats.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", report.Stats.Workers)
	}
	if report.ImageData != "" || report.Error != "" {
		t.Errorf("Expected no image data or error, got %+v", report)
	}

	found := false
	for _, msg := range report.Console {
		if strings.Contains(msg.Message, "Render complete") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected completion message in console, got %+v", report.Console)
	}
}

func TestHandleRenderStream(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/render/stream", url.Values{"scene": {"default"}, "width": {"10"}, "height": {"10"}})

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: console\n") {
		t.Errorf("Expected console events, got %q", body)
	}

	idx := strings.Index(body, "event: complete\ndata: ")
	if idx < 0 {
		t.Fatalf("Expected complete event, got %q", body)
	}
	data := body[idx+len("event: complete\ndata: "):]
	data = data[:strings.Index(data, "\n")]

	var report RenderReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		t.Fatalf("Failed to decode complete event: %v", err)
	}
	if report.ImageData == "" {
		t.Error("Expected base64 image in complete event")
	}
	if report.Stats.TotalPixels != 100 {
		t.Errorf("Expected 100 pixels, got %d", report.Stats.TotalPixels)
	}
}

func TestHandleRenderStream_Error(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/render/stream", url.Values{"scene": {"nonexistent"}})

	if !strings.Contains(rec.Body.String(), "event: error\n") {
		t.Errorf("Expected error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("center hits the sphere", func(t *testing.T) {
		rec := get(t, s, "/api/inspect", url.Values{"scene": {"default"}, "x": {"50"}, "y": {"50"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Hit || response.GeometryType != "sphere" || response.MaterialName != "red" {
			t.Errorf("Expected red sphere hit, got %+v", response)
		}
		if response.Distance < 6.9 || response.Distance > 7.1 {
			t.Errorf("Expected distance near 7, got %f", response.Distance)
		}
	})

	t.Run("corner misses", func(t *testing.T) {
		rec := get(t, s, "/api/inspect", url.Values{"scene": {"default"}, "x": {"0"}, "y": {"0"}})
		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Hit {
			t.Errorf("Expected miss, got %+v", response)
		}
	})

	for _, query := range []url.Values{
		{"scene": {"default"}, "x": {"100"}, "y": {"0"}},
		{"scene": {"default"}, "x": {"a"}, "y": {"0"}},
		{"scene": {"default"}, "x": {"0"}},
	} {
		if rec := get(t, s, "/api/inspect", query); rec.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expected    int
		expectError bool
	}{
		{"missing uses default", "", 7, false},
		{"in range", "3", 3, false},
		{"at max", "10", 10, false},
		{"below min", "0", 0, true},
		{"above max", "11", 0, true},
		{"not a number", "x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 10)
			if (err != nil) != tt.expectError {
				t.Fatalf("Expected error=%t, got %v", tt.expectError, err)
			}
			if !tt.expectError && got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRenderRequest_ExportOptions(t *testing.T) {
	for _, gamma := range []float64{1, 2.2} {
		opts := (&RenderRequest{Gamma: gamma}).exportOptions()
		if opts.Gamma != float32(gamma) {
			t.Errorf("Expected gamma %v, got %v", gamma, opts.Gamma)
		}
	}
}
