package gamelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGamelist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamelist.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseExisting(t *testing.T) {
	path := writeGamelist(t, `<?xml version="1.0"?>
<gameList>
    <game>
        <path>./game1.sfc</path>
        <name>Super Mario World</name>
        <image>~/.emulationstation/downloaded_images/snes/game1.png</image>
    </game>
    <game>
        <path>./game2.sfc</path>
        <name>The Legend of Zelda</name>
        <image>~/.emulationstation/downloaded_images/snes/game2.png</image>
    </game>
</gameList>`)

	index := ParseExisting(path)
	require.Equal(t, 2, index.Len())
	assert.Equal(t, []string{"Super Mario World", "The Legend of Zelda"}, index.Names())

	entry, ok := index.Get("Super Mario World")
	require.True(t, ok)
	assert.Equal(t, "./game1.sfc", entry.Path)
	assert.Equal(t, "~/.emulationstation/downloaded_images/snes/game1.png", entry.Image)
}

func TestParseExistingNonexistent(t *testing.T) {
	index := ParseExisting(filepath.Join(t.TempDir(), "nope", "gamelist.xml"))
	assert.Equal(t, 0, index.Len())
}

func TestParseExistingMalformed(t *testing.T) {
	path := writeGamelist(t, `<gameList><game><name>Broken`)

	index := ParseExisting(path)
	assert.Equal(t, 0, index.Len())
}

func TestParseExistingEmptyDocument(t *testing.T) {
	path := writeGamelist(t, `<?xml version="1.0"?>
<gameList>
</gameList>`)

	index := ParseExisting(path)
	assert.Equal(t, 0, index.Len())
}

func TestParseExistingSkipsUnnamedEntries(t *testing.T) {
	path := writeGamelist(t, `<gameList>
    <game>
        <path>./nameless.sfc</path>
    </game>
    <game>
        <path>./named.sfc</path>
        <name>Named Game</name>
    </game>
</gameList>`)

	index := ParseExisting(path)
	require.Equal(t, 1, index.Len())
	_, ok := index.Get("Named Game")
	assert.True(t, ok)
}

func TestParseExistingWithoutImage(t *testing.T) {
	path := writeGamelist(t, `<gameList>
    <game>
        <path>./game1.sfc</path>
        <name>Game Without Image</name>
    </game>
</gameList>`)

	index := ParseExisting(path)
	entry, ok := index.Get("Game Without Image")
	require.True(t, ok)
	assert.Equal(t, "./game1.sfc", entry.Path)
	assert.Empty(t, entry.Image)
}

func TestIndexDuplicateNameKeepsPositionTakesValue(t *testing.T) {
	index := NewIndex()
	index.Add("Game", IndexEntry{Path: "./old.sfc"})
	index.Add("Other", IndexEntry{Path: "./other.sfc"})
	index.Add("Game", IndexEntry{Path: "./new.sfc"})

	assert.Equal(t, []string{"Game", "Other"}, index.Names())
	entry, _ := index.Get("Game")
	assert.Equal(t, "./new.sfc", entry.Path)
}
