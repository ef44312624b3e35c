// Package artwork downloads and normalizes cover images. Covers may come
// from the RomM server itself (authenticated) or external hosts like IGDB
// (unauthenticated); retry behavior differs per failure kind.
package artwork

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"rommsync/romm"
)

// ErrNoCoverURL is returned when a ROM has no resolvable cover reference.
var ErrNoCoverURL = errors.New("rom has no cover url")

const coverMaxRetries = 3

// DownloadCover fetches a ROM's cover and writes it to destPath as a
// normalized PNG. Retry semantics:
//   - 404: the image does not exist, fail immediately
//   - 401 from an external host: our credentials don't apply, fail immediately
//   - 401 from the RomM server and 429 anywhere: retry with backoff
//   - transport errors: retry up to the bound
func DownloadCover(client *romm.Client, rom romm.Rom, destPath string) error {
	logger := slog.Default()

	url := client.CoverURL(rom)
	if url == "" {
		return ErrNoCoverURL
	}
	isLocal := client.IsLocalURL(url)

	var data []byte
	operation := func() error {
		resp, err := client.Get(url, isLocal)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("cover not found: %s", url))
		case http.StatusUnauthorized:
			if !isLocal {
				return backoff.Permanent(fmt.Errorf("auth required for external cover: %s", url))
			}
			logger.Warn("Auth error downloading cover, retrying", "rom", rom.Name)
			return fmt.Errorf("auth error: %s", resp.Status)
		case http.StatusTooManyRequests:
			logger.Warn("Rate limited downloading cover, backing off", "rom", rom.Name)
			return fmt.Errorf("rate limited: %s", resp.Status)
		default:
			return backoff.Permanent(fmt.Errorf("bad status downloading cover: %s", resp.Status))
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading cover body: %w", err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), coverMaxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("downloading cover for %s: %w", rom.Name, err)
	}

	return writeProcessed(data, destPath)
}
