package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// Built-in scene IDs
const (
	DefaultSceneID  = "default"
	ShowcaseSceneID = "showcase"

	builtInGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by LoadByID
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the JSON file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// BuiltInScenes lists the scenes constructed in code
func BuiltInScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          DefaultSceneID,
			Name:        "Default Scene",
			Description: "Red diffuse sphere lit from the camera",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          ShowcaseSceneID,
			Name:        "Showcase",
			Description: "Every shape kind with reflective and refractive materials",
			Group:       builtInGroup,
			Type:        "builtin",
		},
	}
}

// LoadByID creates a built-in scene by ID, or loads id as a JSON scene file path
func LoadByID(id string, logger core.Logger) (*Scene, error) {
	switch id {
	case DefaultSceneID:
		return NewDefaultScene(), nil
	case ShowcaseSceneID:
		return NewShowcaseScene(), nil
	}
	if !strings.EqualFold(filepath.Ext(id), ".json") {
		return nil, fmt.Errorf("unknown scene %q: expected %q, %q or a .json file", id, DefaultSceneID, ShowcaseSceneID)
	}
	return LoadScene(id, logger)
}

// ListJSONScenes scans scenesDir for *.json scene files.
// A missing directory yields an empty list.
func ListJSONScenes(scenesDir string) ([]SceneInfo, error) {
	if _, err := os.Stat(scenesDir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the optional name, description and group of a JSON scene.
// The file name supplies the fallback name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Group:    fileGroup,
		Type:     "json",
		FilePath: filePath,
	}

	desc, err := loaders.LoadSceneDescription(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if desc.Name != "" {
		sceneInfo.Name = desc.Name
	}
	if desc.Group != "" {
		sceneInfo.Group = desc.Group
	}
	sceneInfo.Description = desc.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListJSONScenes(scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	// Combine all scenes
	allScenes := append(BuiltInScenes(), fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})

	// Add other groups alphabetically
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
