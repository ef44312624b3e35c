// Package sync drives a per-platform pass: fetch the remote ROM set,
// reconcile previously synced games, download missing assets, and write a
// fresh gamelist.xml. Passes are strictly sequential; one platform is the
// unit of atomicity.
package sync

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/atomic"

	"rommsync/artwork"
	"rommsync/cache"
	"rommsync/gamelist"
	"rommsync/romm"
	"rommsync/targets"
)

// Options carries the resolved configuration for a sync run. Profile paths
// and RomBasePath are expected to be home-expanded already.
type Options struct {
	GamelistRoot   string
	Profile        targets.Profile
	RomBasePath    string
	DownloadImages bool
	DownloadRoms   bool
	DryRun         bool
	FavoritesOnly  bool
	KidFriendlyIDs map[int]struct{}
	Covers         *cache.Manager
	Out            io.Writer
}

// coverPacing throttles cover downloads: sleep after every batch to stay
// under external image hosts' rate limits.
const (
	coverPacingBatch = 10
	coverPacingDelay = 500 * time.Millisecond
)

// SyncPlatform runs one platform's full pass and returns the number of
// ROMs processed. Fetch failures abort only this platform; the error
// return is reserved for local write failures.
func SyncPlatform(client *romm.Client, platform romm.Platform, opts Options) (int, error) {
	logger := slog.Default()
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	folder := targets.FolderFor(platform.Slug)

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(out, "Platform: %s (%s)\n", platform.Slug, platform.Name)
	fmt.Fprintf(out, "  EmulationStation folder: %s\n", folder)
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", 60))

	var page romm.RomsPage
	var err error
	if opts.FavoritesOnly {
		page, err = client.GetFavoriteRoms(platform.ID)
	} else {
		page, err = client.GetRoms(romm.RomsQuery{PlatformID: platform.ID})
	}
	if errors.Is(err, romm.ErrNoFavoritesCollection) {
		printNoFavoritesHelp(out)
		return 0, nil
	}
	if err != nil {
		logger.Error("Failed to fetch ROMs", "platform", platform.Slug, "error", err)
		fmt.Fprintf(out, "  Error fetching ROMs: %v\n", err)
		return 0, nil
	}

	roms := page.Items
	if len(roms) == 0 {
		if opts.FavoritesOnly {
			fmt.Fprintln(out, "  No favorite ROMs found for this platform")
		} else {
			fmt.Fprintln(out, "  No ROMs found for this platform")
		}
		return 0, nil
	}

	if opts.FavoritesOnly {
		fmt.Fprintf(out, "  Found %d favorite ROMs\n", len(roms))
	} else {
		fmt.Fprintf(out, "  Found %d ROMs\n", len(roms))
	}

	if opts.DryRun {
		printDryRunPlan(out, roms, opts)
		return len(roms), nil
	}

	imagesDir := filepath.Join(opts.Profile.ImagesPath, folder)
	if opts.Profile.ImageSubdir != "" {
		imagesDir = filepath.Join(imagesDir, opts.Profile.ImageSubdir)
	}

	romsDir := filepath.Join(opts.Profile.RomsPath, folder)
	if opts.RomBasePath != "" {
		romsDir = filepath.Join(opts.RomBasePath, "roms", folder)
	}

	gamelistPath := filepath.Join(opts.GamelistRoot, folder, "gamelist.xml")

	existing := gamelist.ParseExisting(gamelistPath)
	if existing.Len() > 0 {
		fmt.Fprintf(out, "  Found %d previously synced games\n", existing.Len())

		if opts.FavoritesOnly {
			result := RemoveUnfavorited(roms, existing, romsDir, imagesDir, opts.DryRun, out)
			if result.RemovedRoms > 0 || result.RemovedImages > 0 {
				fmt.Fprintf(out, "  Cleanup complete: %d ROM(s) and %d image(s) removed\n",
					result.RemovedRoms, result.RemovedImages)
			}
			if opts.Covers != nil {
				// Drop cache rows whose cover file was just deleted so
				// re-favorited games get their art re-fetched.
				if _, err := opts.Covers.ValidateCovers(); err != nil {
					logger.Debug("Cover cache validation failed", "error", err)
				}
			}
		}
	}

	if opts.DownloadImages {
		downloadCovers(client, roms, imagesDir, platform, opts.Covers, out)
	}

	if opts.DownloadRoms {
		downloadRomFiles(client, roms, romsDir, out)
	}

	if len(opts.KidFriendlyIDs) > 0 {
		kidCount := 0
		for _, rom := range roms {
			if _, ok := opts.KidFriendlyIDs[rom.ID]; ok {
				kidCount++
			}
		}
		if kidCount > 0 {
			fmt.Fprintf(out, "  Found %d kid-friendly ROMs in this platform\n", kidCount)
		}
	}

	fmt.Fprintln(out, "  Generating gamelist.xml...")
	entries := make([]gamelist.Entry, 0, len(roms))
	for _, rom := range roms {
		entries = append(entries, BuildEntry(rom, folder, opts.RomBasePath, opts.KidFriendlyIDs, opts.Profile))
	}
	if err := gamelist.Write(entries, gamelistPath); err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "  Wrote %s\n", gamelistPath)

	return len(roms), nil
}

func printDryRunPlan(out io.Writer, roms []romm.Rom, opts Options) {
	var actions []string
	if opts.DownloadRoms {
		actions = append(actions, "download ROM files")
	}
	if opts.DownloadImages {
		actions = append(actions, "download images")
	}
	actions = append(actions, "create gamelist.xml")

	fmt.Fprintf(out, "\n  [DRY RUN] Would %s\n", strings.Join(actions, ", "))
	for i, rom := range roms {
		if i >= 5 {
			fmt.Fprintf(out, "    ... and %d more\n", len(roms)-5)
			break
		}
		name := rom.Name
		if name == "" {
			name = rom.FileName
		}
		fmt.Fprintf(out, "    - %s\n", name)
	}
}

func printNoFavoritesHelp(out io.Writer) {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(out, "ERROR: No Favourites collection found!")
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(out, "\nYou are trying to sync favorites, but this user account has no")
	fmt.Fprintln(out, "'Favourites' collection in RomM.")
	fmt.Fprintln(out, "\nTo fix this:")
	fmt.Fprintln(out, "  1. Log into RomM with this user account")
	fmt.Fprintln(out, "  2. Create a collection named 'Favourites' (or 'Favorites')")
	fmt.Fprintln(out, "  3. Add some ROMs to the collection")
	fmt.Fprintln(out, "\nOr use --all-roms to sync your entire library instead.")
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 60))
}

func downloadCovers(client *romm.Client, roms []romm.Rom, imagesDir string, platform romm.Platform, covers *cache.Manager, out io.Writer) {
	logger := slog.Default()

	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		logger.Error("Failed to create images directory", "path", imagesDir, "error", err)
		fmt.Fprintf(out, "  Error creating images directory: %v\n", err)
		return
	}

	fsSlug := platform.FSSlug
	if fsSlug == "" {
		fsSlug = platform.Slug
	}

	fmt.Fprintln(out, "  Downloading cover images...")
	var downloaded, skipped, failed int
	totalWithCovers := 0
	for _, rom := range roms {
		if rom.HasCover() {
			totalWithCovers++
		}
	}

	for i, rom := range roms {
		if !rom.HasCover() {
			continue
		}

		imagePath := filepath.Join(imagesDir, CoverFilename(rom))
		if _, err := os.Stat(imagePath); err == nil {
			skipped++
			continue
		}
		if covers.IsCoverCached(fsSlug, rom.ID) {
			skipped++
			continue
		}

		fmt.Fprintf(out, "\r    Downloading image %d/%d: %.50s...", downloaded+failed+1, totalWithCovers, rom.Name)

		if err := artwork.DownloadCover(client, rom, imagePath); err != nil {
			logger.Debug("Cover download failed", "rom", rom.Name, "error", err)
			failed++
		} else {
			downloaded++
			if covers != nil {
				if err := covers.MarkCover(fsSlug, rom.ID, imagePath); err != nil {
					logger.Debug("Failed to record cover in cache", "rom", rom.Name, "error", err)
				}
			}
		}

		if (i+1)%coverPacingBatch == 0 {
			time.Sleep(coverPacingDelay)
		}
	}

	if downloaded > 0 || failed > 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  Downloaded %d cover images (skipped %d existing, %d failed)\n", downloaded, skipped, failed)
	if failed > 0 {
		fmt.Fprintf(out, "  Note: %d images failed to download (check auth or network issues)\n", failed)
	}
	if downloaded == 0 && failed == 0 && skipped == 0 {
		fmt.Fprintln(out, "  WARNING: No ROMs have cover images available")
	}
}

func downloadRomFiles(client *romm.Client, roms []romm.Rom, romsDir string, out io.Writer) {
	logger := slog.Default()

	fmt.Fprintf(out, "\n  Downloading ROM files to: %s\n", romsDir)
	if err := os.MkdirAll(romsDir, 0755); err != nil {
		logger.Error("Failed to create roms directory", "path", romsDir, "error", err)
		fmt.Fprintf(out, "  Error creating roms directory: %v\n", err)
		return
	}

	var downloaded, skipped, failed int
	for idx, rom := range roms {
		if rom.FSName == "" {
			failed++
			continue
		}

		destPath := filepath.Join(romsDir, rom.FSName)
		if _, err := os.Stat(destPath); err == nil {
			skipped++
			continue
		}

		fmt.Fprintf(out, "    [%d/%d] Downloading %s...\n", idx+1, len(roms), rom.FSName)

		received := atomic.NewInt64(0)
		done := make(chan struct{})
		go reportDownloadProgress(out, received, done)

		total, err := client.DownloadRomFile(rom, destPath, received)
		close(done)

		if err != nil {
			logger.Error("ROM download failed", "rom", rom.FSName, "error", err)
			fmt.Fprintf(out, "\r      Error downloading %s: %v\n", rom.FSName, err)
			failed++
			continue
		}

		if total > 0 {
			fmt.Fprintf(out, "\r      Done: %s\n", formatBytes(received.Load()))
		}
		downloaded++
	}

	fmt.Fprintf(out, "  Downloaded %d ROM files (skipped %d existing, %d failed)\n", downloaded, skipped, failed)
}

// reportDownloadProgress prints the byte count of an in-flight download
// until done is closed.
func reportDownloadProgress(out io.Writer, received *atomic.Int64, done <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			fmt.Fprintf(out, "\r      Progress: %s", formatBytes(received.Load()))
		}
	}
}

func formatBytes(count int64) string {
	value := float64(count)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", value)
}
