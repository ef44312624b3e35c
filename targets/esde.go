package targets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// DetectedPaths are the directories read from ES-DE's own settings file.
type DetectedPaths struct {
	RomsPath  string
	MediaPath string
}

var (
	romDirPattern   = regexp.MustCompile(`<string name="ROMDirectory" value="([^"]+)"`)
	mediaDirPattern = regexp.MustCompile(`<string name="MediaDirectory" value="([^"]+)"`)
)

// ESDESettingsPath returns the location of es_settings.xml under home.
func ESDESettingsPath(home string) string {
	return filepath.Join(home, "ES-DE", "settings", "es_settings.xml")
}

// DetectESDEPaths extracts ROMDirectory and MediaDirectory from ES-DE's
// settings file. A missing settings file returns empty paths and a nil
// error; the caller decides whether missing paths are fatal.
func DetectESDEPaths(home string) (DetectedPaths, error) {
	logger := slog.Default()
	settingsPath := ESDESettingsPath(home)

	content, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("ES-DE settings not found", "path", settingsPath)
			return DetectedPaths{}, nil
		}
		return DetectedPaths{}, fmt.Errorf("reading ES-DE settings: %w", err)
	}

	var detected DetectedPaths
	if match := romDirPattern.FindSubmatch(content); match != nil {
		detected.RomsPath = string(match[1])
		logger.Debug("Found ROMDirectory in ES-DE settings", "path", detected.RomsPath)
	}
	if match := mediaDirPattern.FindSubmatch(content); match != nil {
		detected.MediaPath = string(match[1])
		logger.Debug("Found MediaDirectory in ES-DE settings", "path", detected.MediaPath)
	}

	return detected, nil
}
