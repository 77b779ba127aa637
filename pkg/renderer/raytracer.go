package renderer

import (
	"context"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	NumWorkers       int  // Parallel row workers, 0 = one per CPU
	PruneZeroWeights bool // Skip secondary rays whose material weight is zero
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers:       0,
		PruneZeroWeights: false,
	}
}

// Raytracer renders a scene row by row with a Whitted integrator
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:  s,
		camera: NewCamera(s.Width, s.Height, s.FOV),
		integrator: integrator.NewWhittedIntegrator(integrator.Config{
			PruneZeroWeights: config.PruneZeroWeights,
		}),
		config: config,
		logger: logger,
	}
}

// RenderRow shades every pixel of row y into pixels, which must be scene.Width long.
// Panics propagate to the caller.
func (rt *Raytracer) RenderRow(y int, pixels []core.Vec3) integrator.Counters {
	var counters integrator.Counters
	for x := range pixels {
		counters.CameraRays++
		pixels[x] = rt.integrator.CastRay(rt.camera.GetRay(x, y), rt.scene, 0, &counters)
	}
	return counters
}

// Render produces the full frame. Rows are distributed over a worker pool; the
// output does not depend on the number of workers. Cancelling ctx stops dispatching
// new rows and Render returns ctx.Err(). The first row that fails aborts the render.
func (rt *Raytracer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	if err := rt.scene.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if err := ctx.Err(); err != nil {
		rt.logger.Printf("Rendering cancelled before start\n")
		return nil, RenderStats{}, err
	}

	width, height := rt.scene.Width, rt.scene.Height
	frame := NewFrameBuffer(width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(rt, frame, rt.config.NumWorkers)
	stats := RenderStats{
		Width:       width,
		Height:      height,
		TotalPixels: width * height,
		Workers:     pool.GetNumWorkers(),
	}

	rt.logger.Printf("Rendering %dx%d with %d workers (max depth %d, %d primitives)\n",
		width, height, stats.Workers, rt.scene.MaxDepth, rt.scene.GetPrimitiveCount())

	startTime := time.Now()
	pool.Start()

	go func() {
		defer pool.Stop()
		for y := 0; y < height; y++ {
			if !pool.SubmitTask(ctx, RowTask{Row: y}) {
				return
			}
		}
	}()

	var firstErr error
	rowsDone := 0
	nextReport := 1
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Rays.Add(result.Counters)
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
				cancel()
			}
			continue
		}

		rowsDone++
		// Report progress in tenths of the frame
		if rowsDone*10 >= nextReport*height {
			rt.logger.Printf("Progress: %d/%d rows (%d%%)\n", rowsDone, height, rowsDone*100/height)
			nextReport = rowsDone*10/height + 1
		}
	}

	stats.Duration = time.Since(startTime)

	if firstErr != nil {
		rt.logger.Printf("Rendering failed: %v\n", firstErr)
		return nil, stats, firstErr
	}
	if rowsDone < height {
		rt.logger.Printf("Rendering cancelled after %d/%d rows\n", rowsDone, height)
		return nil, stats, ctx.Err()
	}

	rt.logger.Printf("Render complete in %v: %d rays (%d camera, %d reflection, %d refraction, %d shadow), %.0f rays/s\n",
		stats.Duration, stats.Rays.TotalRays(), stats.Rays.CameraRays, stats.Rays.ReflectionRays,
		stats.Rays.RefractionRays, stats.Rays.ShadowRays, stats.RaysPerSecond())

	return frame, stats, nil
}
