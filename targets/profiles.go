// Package targets holds the immutable configuration tables for supported
// frontends: output-layout profiles, the RomM-slug to EmulationStation
// folder map, and ES-DE settings auto-detection. Tables are plain values
// injected at startup so syncs stay testable with synthetic layouts.
package targets

import (
	"path/filepath"
	"strings"
)

// Profile describes where one frontend expects gamelists, images, and ROM
// files. Empty ImagesPath/RomsPath means the path must come from
// auto-detection or an explicit override before syncing.
type Profile struct {
	Key          string
	Name         string
	GamelistPath string
	ImagesPath   string
	RomsPath     string
	ImageSubdir  string
}

// Builtin returns the shipped target profiles keyed by CLI name.
func Builtin() map[string]Profile {
	return map[string]Profile{
		"retropie": {
			Key:          "retropie",
			Name:         "RetroPie",
			GamelistPath: "./.emulationstation/gamelists",
			ImagesPath:   "~/.emulationstation/downloaded_images",
			RomsPath:     "~/RetroPie/roms",
			ImageSubdir:  "",
		},
		"steamdeck": {
			Key:          "steamdeck",
			Name:         "SteamDeck (ES-DE)",
			GamelistPath: "~/ES-DE/gamelists",
			ImagesPath:   "", // detected from ES-DE settings
			RomsPath:     "", // detected from ES-DE settings
			ImageSubdir:  "covers",
		},
	}
}

// ProfileNames returns the valid --target values.
func ProfileNames() []string {
	return []string{"retropie", "steamdeck"}
}

// ExpandHome substitutes a leading ~ with the given home directory.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
