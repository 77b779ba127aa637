package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/export"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server serving JSON scenes from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string  `json:"scene"`   // Scene ID (built-in name or JSON file in the scenes directory)
	Format  string  `json:"format"`  // Output image format
	Width   int     `json:"width"`   // Frame width override, 0 keeps the scene's
	Height  int     `json:"height"`  // Frame height override, 0 keeps the scene's
	Workers int     `json:"workers"` // Parallel workers, 0 = one per CPU
	Prune   bool    `json:"prune"`   // Skip zero-weight secondary rays
	Gamma   float64 `json:"gamma"`   // Display gamma applied on export
}

// exportOptions applies the requested gamma to the default export settings
func (req *RenderRequest) exportOptions() export.Options {
	opts := export.DefaultOptions()
	opts.Gamma = float32(req.Gamma)
	return opts
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/report", s.handleRenderReport)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the JSON scenes in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{}

	if sceneID := query.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	} else {
		req.Scene = scene.DefaultSceneID
	}

	if format := query.Get("format"); format != "" {
		req.Format = strings.ToLower(format)
	} else {
		req.Format = "png"
	}
	switch req.Format {
	case "png", "jpeg", "jpg", "gif", "bmp", "tiff", "tif", "ppm":
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", 1, 0.1, 5); err != nil {
		return nil, err
	}
	if value := query.Get("prune"); value != "" {
		if req.Prune, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid prune: %s", value)
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene loads a scene by ID. JSON scenes must live directly in the scenes
// directory; other paths are rejected. Width and height overrides are applied.
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	id := req.Scene
	if id != scene.DefaultSceneID && id != scene.ShowcaseSceneID {
		if filepath.Dir(filepath.Clean(id)) != filepath.Clean(s.scenesDir) {
			return nil, fmt.Errorf("unknown scene: %s", id)
		}
	}

	sceneObj, err := scene.LoadByID(id, logger)
	if err != nil {
		return nil, err
	}

	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.Height > 0 {
		sceneObj.Height = req.Height
	}
	return sceneObj, nil
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
