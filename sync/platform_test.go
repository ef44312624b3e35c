package sync

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rommsync/gamelist"
	"rommsync/romm"
	"rommsync/targets"
)

// fakeRomM serves the minimal API surface SyncPlatform touches.
func fakeRomM(t *testing.T, collections, roms string) *romm.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/collections":
			w.Write([]byte(collections))
		case "/api/roms":
			w.Write([]byte(roms))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	return romm.NewClient(romm.Host{RootURI: ts.URL, Username: "admin", Password: "pw"}, 5*time.Second)
}

func testOptions(t *testing.T) Options {
	t.Helper()
	base := t.TempDir()
	return Options{
		GamelistRoot: filepath.Join(base, "gamelists"),
		Profile: targets.Profile{
			Key:        "retropie",
			ImagesPath: filepath.Join(base, "images"),
			RomsPath:   filepath.Join(base, "roms"),
		},
		Out: &bytes.Buffer{},
	}
}

var snes = romm.Platform{ID: 1, Slug: "snes", Name: "SNES"}

func TestSyncPlatformWritesGamelist(t *testing.T) {
	client := fakeRomM(t,
		`[{"id":3,"name":"Favourites"}]`,
		`{"items":[{"id":10,"name":"Game A","fs_name":"game_a.sfc"},{"id":11,"name":"Game B","fs_name":"game_b.sfc"}],"total":2}`)

	opts := testOptions(t)
	opts.FavoritesOnly = true

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	index := gamelist.ParseExisting(filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml"))
	require.Equal(t, 2, index.Len())
	assert.Equal(t, []string{"Game A", "Game B"}, index.Names())

	entry, ok := index.Get("Game A")
	require.True(t, ok)
	assert.Equal(t, "./game_a.sfc", entry.Path)
}

func TestSyncPlatformNoFavoritesCollection(t *testing.T) {
	client := fakeRomM(t, `[]`, `{"items":[],"total":0}`)

	opts := testOptions(t)
	opts.FavoritesOnly = true

	// A stale gamelist must survive the abort untouched.
	stale := filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml")
	require.NoError(t, gamelist.Write([]gamelist.Entry{{Path: "./old.sfc", Name: "Old"}}, stale))
	before, err := os.ReadFile(stale)
	require.NoError(t, err)

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Zero(t, count)

	out := opts.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "No Favourites collection found")
	assert.Contains(t, out, "--all-roms")

	after, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSyncPlatformEmptyLibrary(t *testing.T) {
	client := fakeRomM(t, `[{"id":3,"name":"Favourites"}]`, `{"items":[],"total":0}`)

	opts := testOptions(t)
	opts.FavoritesOnly = true

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, opts.Out.(*bytes.Buffer).String(), "No favorite ROMs found")
	assert.NoFileExists(t, filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml"))
}

func TestSyncPlatformDryRunWritesNothing(t *testing.T) {
	client := fakeRomM(t, `[{"id":3,"name":"Favourites"}]`,
		`{"items":[{"id":10,"name":"Game A","fs_name":"game_a.sfc"}],"total":1}`)

	opts := testOptions(t)
	opts.FavoritesOnly = true
	opts.DryRun = true
	opts.DownloadImages = true

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	out := opts.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "[DRY RUN]")
	assert.Contains(t, out, "Game A")

	assert.NoFileExists(t, filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml"))
	assert.NoDirExists(t, filepath.Join(opts.Profile.ImagesPath, "snes"))
}

func TestSyncPlatformRemovesUnfavorited(t *testing.T) {
	client := fakeRomM(t, `[{"id":3,"name":"Favourites"}]`,
		`{"items":[{"id":10,"name":"Game A","fs_name":"game_a.sfc"}],"total":1}`)

	opts := testOptions(t)
	opts.FavoritesOnly = true

	romsDir := filepath.Join(opts.Profile.RomsPath, "snes")
	require.NoError(t, os.MkdirAll(romsDir, 0755))
	orphan := filepath.Join(romsDir, "game_b.sfc")
	touch(t, orphan)

	stale := filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml")
	require.NoError(t, gamelist.Write([]gamelist.Entry{
		{Path: "./game_a.sfc", Name: "Game A"},
		{Path: "./game_b.sfc", Name: "Game B"},
	}, stale))

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoFileExists(t, orphan)

	index := gamelist.ParseExisting(stale)
	require.Equal(t, 1, index.Len())
	_, ok := index.Get("Game B")
	assert.False(t, ok)
}

func TestSyncPlatformFetchFailureSkipsPlatform(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)
	client := romm.NewClient(romm.Host{RootURI: ts.URL}, 5*time.Second)

	opts := testOptions(t)

	count, err := SyncPlatform(client, snes, opts)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, opts.Out.(*bytes.Buffer).String(), "Error fetching ROMs")
	assert.NoFileExists(t, filepath.Join(opts.GamelistRoot, "snes", "gamelist.xml"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512.0 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}
