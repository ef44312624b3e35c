package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// maxCoverWidth caps cover dimensions; frontends render covers small and
// IGDB originals can be several megabytes.
const maxCoverWidth = 600

// writeProcessed normalizes raw image bytes to PNG at destPath, downscaling
// anything wider than maxCoverWidth. Bytes that don't decode as a known
// image format are written untouched; a bad cover should not fail the sync.
func writeProcessed(data []byte, destPath string) error {
	logger := slog.Default()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Debug("Cover did not decode, writing raw bytes", "path", destPath, "error", err)
		return os.WriteFile(destPath, data, 0644)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxCoverWidth {
		height := bounds.Dy() * maxCoverWidth / bounds.Dx()
		scaled := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		src = scaled
	} else if format == "png" {
		// Already a small PNG; keep the original bytes.
		return os.WriteFile(destPath, data, 0644)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}

	if err := png.Encode(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("encoding cover png: %w", err)
	}
	return out.Close()
}
