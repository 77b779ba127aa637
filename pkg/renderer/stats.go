package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	TotalPixels int                 `json:"totalPixels"` // Total number of pixels rendered
	Workers     int                 `json:"workers"`     // Number of parallel workers used
	Duration    time.Duration       `json:"duration"`    // Wall-clock render time
	Rays        integrator.Counters `json:"rays"`        // Ray totals summed over all rows
}

// RaysPerSecond returns the ray throughput, shadow rays included
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays.TotalRays()) / s.Duration.Seconds()
}
