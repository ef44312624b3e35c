package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rommsync/romm"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func coverClient(ts *httptest.Server) *romm.Client {
	return romm.NewClient(romm.Host{RootURI: ts.URL, Username: "admin", Password: "pw"}, 5*time.Second)
}

func TestDownloadCoverWritesPNG(t *testing.T) {
	data := pngBytes(t, 100, 150)
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// External host: credentials must not leak here.
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write(data)
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	destPath := filepath.Join(t.TempDir(), "snes", "game.png")
	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}

	require.NoError(t, DownloadCover(coverClient(api), rom, destPath))

	written, err := os.ReadFile(destPath)
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(written))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestDownloadCoverDownscalesWideImages(t *testing.T) {
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 1200, 900))
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	destPath := filepath.Join(t.TempDir(), "game.png")
	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}

	require.NoError(t, DownloadCover(coverClient(api), rom, destPath))

	written, err := os.ReadFile(destPath)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(written))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestDownloadCoverUndecodableBytesWrittenRaw(t *testing.T) {
	payload := []byte("not an image at all")
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	destPath := filepath.Join(t.TempDir(), "game.png")
	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}

	require.NoError(t, DownloadCover(coverClient(api), rom, destPath))

	written, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestDownloadCoverNotFoundDoesNotRetry(t *testing.T) {
	var requests atomic.Int64
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}
	err := DownloadCover(coverClient(api), rom, filepath.Join(t.TempDir(), "game.png"))

	require.Error(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

func TestDownloadCoverExternalAuthFailureDoesNotRetry(t *testing.T) {
	var requests atomic.Int64
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}
	err := DownloadCover(coverClient(api), rom, filepath.Join(t.TempDir(), "game.png"))

	require.Error(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

func TestDownloadCoverRateLimitedRetries(t *testing.T) {
	data := pngBytes(t, 50, 50)
	var requests atomic.Int64
	cover := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(data)
	}))
	defer cover.Close()

	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	destPath := filepath.Join(t.TempDir(), "game.png")
	rom := romm.Rom{ID: 1, Name: "Game", URLCover: cover.URL + "/cover.png"}

	require.NoError(t, DownloadCover(coverClient(api), rom, destPath))
	assert.GreaterOrEqual(t, requests.Load(), int64(2))
	assert.FileExists(t, destPath)
}

func TestDownloadCoverServerHostedUsesAuth(t *testing.T) {
	data := pngBytes(t, 50, 50)
	var sawAuth atomic.Bool
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/roms/7/cover/small", r.URL.Path)
		sawAuth.Store(r.Header.Get("Authorization") != "")
		w.Write(data)
	}))
	defer api.Close()

	destPath := filepath.Join(t.TempDir(), "game.png")
	rom := romm.Rom{ID: 7, Name: "Game", PathCoverSmall: "/assets/romm/resources/roms/7/cover/small.png"}

	require.NoError(t, DownloadCover(coverClient(api), rom, destPath))
	assert.True(t, sawAuth.Load())
}

func TestDownloadCoverNoURL(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	err := DownloadCover(coverClient(api), romm.Rom{ID: 1, Name: "Bare"}, filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, ErrNoCoverURL)
}
