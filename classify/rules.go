package classify

import (
	"path/filepath"
	"strings"
)

// pictureExtensions are file extensions labeled Picture without inspection.
var pictureExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".svg": true, ".tiff": true,
}

// techExtensions are file extensions labeled Tech without inspection.
var techExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".rs": true,
	".c": true, ".cpp": true, ".h": true, ".java": true, ".sh": true,
	".yaml": true, ".yml": true, ".json": true, ".toml": true, ".sql": true,
}

// missionKeywords mark strategy and planning documents.
var missionKeywords = []string{
	"mission", "objective", "roadmap", "strategy", "vision", "milestone",
}

// techKeywords mark technical documents regardless of extension.
var techKeywords = []string{
	"api", "server", "database", "algorithm", "deployment", "architecture",
	"protocol", "compiler", "kernel",
}

// FallbackLabel produces a deterministic category from the file extension and
// simple keyword heuristics. It always returns a non-empty label.
func FallbackLabel(filename, text string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if pictureExtensions[ext] {
		return CategoryPicture
	}
	if techExtensions[ext] {
		return CategoryTech
	}

	lower := strings.ToLower(text)
	for _, keyword := range missionKeywords {
		if strings.Contains(lower, keyword) {
			return CategoryMission
		}
	}
	for _, keyword := range techKeywords {
		if strings.Contains(lower, keyword) {
			return CategoryTech
		}
	}

	return CategoryGeneral
}
