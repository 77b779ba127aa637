package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/export"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", scene.DefaultSceneID, "Scene: 'default', 'showcase' or a path to a .json scene file")
	output := flag.String("out", "", "Output file; the extension picks the format (png, jpg, gif, bmp, tiff, ppm)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	prune := flag.Bool("prune", false, "Skip reflection/refraction rays for materials with zero weight")
	gamma := flag.Float64("gamma", 1, "Display gamma applied on export (1 = linear)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default  - Red diffuse sphere lit from the camera")
		fmt.Println("  showcase - Every shape type with reflective and refractive materials")
		fmt.Println("  *.json   - Scene description file (meshes and backgrounds resolve relative to it)")
		fmt.Println()
		fmt.Println("Without -out, output is saved to output/<scene>/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting Whitted Raytracer...")
	logger := renderer.NewDefaultLogger()

	selectedScene, err := createScene(*sceneType, logger)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	filename := *output
	if filename == "" {
		outputDir := createOutputDir(*sceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	exportOpts, err := outputOptions(filename, *gamma)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C stops dispatching rows
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config := renderer.Config{
		NumWorkers:       *workers,
		PruneZeroWeights: *prune,
	}
	frame, _, err := renderer.NewRaytracer(selectedScene, config, logger).Render(ctx)
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	if err := export.Save(filename, frame, exportOpts); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// outputOptions checks that the output file has a supported extension before
// any rendering happens, and applies the requested gamma to the export defaults
func outputOptions(filename string, gamma float64) (export.Options, error) {
	if _, err := export.FormatFromPath(filename); err != nil {
		return export.Options{}, err
	}
	opts := export.DefaultOptions()
	opts.Gamma = float32(gamma)
	return opts, nil
}

// createScene resolves a built-in scene name or a JSON scene path
func createScene(sceneType string, logger core.Logger) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name is empty")
	}
	return scene.LoadByID(sceneType, logger)
}

// createOutputDir returns output/<name>, where name is the built-in scene ID or the
// scene file's base name without extension
func createOutputDir(sceneType string) string {
	name := sceneType
	if strings.EqualFold(filepath.Ext(sceneType), ".json") {
		name = strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	}
	return filepath.Join("output", name)
}
