package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderFor(t *testing.T) {
	assert.Equal(t, "snes", FolderFor("snes"))
	assert.Equal(t, "snes", FolderFor("super-famicom"))
	assert.Equal(t, "megadrive", FolderFor("genesis"))
	assert.Equal(t, "psx", FolderFor("playstation"))
	assert.Equal(t, "gba", FolderFor("game-boy-advance"))

	// Unknown slugs pass through unchanged.
	assert.Equal(t, "some-new-platform", FolderFor("some-new-platform"))
}

func TestBuiltinProfiles(t *testing.T) {
	profiles := Builtin()
	require.Contains(t, profiles, "retropie")
	require.Contains(t, profiles, "steamdeck")

	retropie := profiles["retropie"]
	assert.Equal(t, "~/.emulationstation/downloaded_images", retropie.ImagesPath)
	assert.Equal(t, "~/RetroPie/roms", retropie.RomsPath)
	assert.Empty(t, retropie.ImageSubdir)

	deck := profiles["steamdeck"]
	assert.Equal(t, "covers", deck.ImageSubdir)
	assert.Empty(t, deck.ImagesPath)
	assert.Empty(t, deck.RomsPath)

	assert.ElementsMatch(t, []string{"retropie", "steamdeck"}, ProfileNames())
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/pi/RetroPie/roms", ExpandHome("~/RetroPie/roms", "/home/pi"))
	assert.Equal(t, "/home/pi", ExpandHome("~", "/home/pi"))
	assert.Equal(t, "/absolute/path", ExpandHome("/absolute/path", "/home/pi"))
	assert.Equal(t, "relative/path", ExpandHome("relative/path", "/home/pi"))
	assert.Equal(t, "~stray", ExpandHome("~stray", "/home/pi"))
}

func TestDetectESDEPaths(t *testing.T) {
	home := t.TempDir()
	settingsDir := filepath.Join(home, "ES-DE", "settings")
	require.NoError(t, os.MkdirAll(settingsDir, 0755))

	settings := `<?xml version="1.0"?>
<string name="ROMDirectory" value="/run/media/mmcblk0p1/Emulation/roms" />
<string name="MediaDirectory" value="/run/media/mmcblk0p1/Emulation/tools/downloaded_media" />
`
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "es_settings.xml"), []byte(settings), 0644))

	detected, err := DetectESDEPaths(home)
	require.NoError(t, err)
	assert.Equal(t, "/run/media/mmcblk0p1/Emulation/roms", detected.RomsPath)
	assert.Equal(t, "/run/media/mmcblk0p1/Emulation/tools/downloaded_media", detected.MediaPath)
}

func TestDetectESDEPathsMissingFile(t *testing.T) {
	detected, err := DetectESDEPaths(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, detected.RomsPath)
	assert.Empty(t, detected.MediaPath)
}

func TestDetectESDEPathsPartialSettings(t *testing.T) {
	home := t.TempDir()
	settingsDir := filepath.Join(home, "ES-DE", "settings")
	require.NoError(t, os.MkdirAll(settingsDir, 0755))
	settings := `<string name="ROMDirectory" value="/roms" />`
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "es_settings.xml"), []byte(settings), 0644))

	detected, err := DetectESDEPaths(home)
	require.NoError(t, err)
	assert.Equal(t, "/roms", detected.RomsPath)
	assert.Empty(t, detected.MediaPath)
}
