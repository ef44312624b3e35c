// rommsync pulls game metadata, cover art, and optionally ROM files from a
// RomM server and generates EmulationStation gamelist.xml trees for
// RetroPie or ES-DE, pruning local files for games that fell out of the
// server-side Favourites collection.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"rommsync/cache"
	"rommsync/romm"
	"rommsync/sync"
	"rommsync/targets"
	"rommsync/utils"
	"rommsync/version"
)

const (
	exitCodeConnectionError = 1
	exitCodeConfigError     = 2
)

type cliFlags struct {
	server       string
	user         string
	password     string
	target       string
	output       string
	platforms    string
	noImages     bool
	dryRun       bool
	listOnly     bool
	romPath      string
	allRoms      bool
	downloadRoms bool
	noAutoDetect bool
	logLevel     string
	saveConfig   bool
}

func main() {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "rommsync",
		Short:         "Sync ROM metadata from RomM to EmulationStation",
		Long:          "Sync ROM metadata, cover art, and optionally ROM files from a RomM server\nto EmulationStation gamelist.xml trees (RetroPie, SteamDeck ES-DE).",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			run(flags)
		},
	}

	rootCmd.Flags().StringVarP(&flags.server, "server", "s", "", "RomM server URL (e.g., https://romm.example.net)")
	rootCmd.Flags().StringVarP(&flags.user, "user", "u", "", "RomM username")
	rootCmd.Flags().StringVarP(&flags.password, "password", "p", "", "RomM password")
	rootCmd.Flags().StringVar(&flags.target, "target", "retropie", "Target system: "+strings.Join(targets.ProfileNames(), ", "))
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "Gamelist output directory (overrides target default)")
	rootCmd.Flags().StringVar(&flags.platforms, "platforms", "", "Comma-separated platform slugs to sync (default: all)")
	rootCmd.Flags().BoolVar(&flags.noImages, "no-images", false, "Skip downloading cover images")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.Flags().BoolVar(&flags.listOnly, "list-platforms", false, "List available platforms and exit")
	rootCmd.Flags().StringVar(&flags.romPath, "rom-path", "", "Base path for the Emulation directory (ROMs go to {path}/roms/{platform}/)")
	rootCmd.Flags().BoolVar(&flags.allRoms, "all-roms", false, "Sync all ROMs (default: only favorites)")
	rootCmd.Flags().BoolVar(&flags.downloadRoms, "download-roms", false, "Download ROM files from the RomM server")
	rootCmd.Flags().BoolVar(&flags.noAutoDetect, "no-auto-detect", false, "Disable auto-detection of ES-DE paths")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	rootCmd.Flags().BoolVar(&flags.saveConfig, "save-config", false, "Save server and credentials to config.json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Printf("rommsync %s (%s, built %s)\n", info.Version, info.GitCommit, info.BuildDate)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeConfigError)
	}
}

func run(flags *cliFlags) {
	logger := setupLogging(flags.logLevel)

	cfg, err := utils.LoadConfig()
	if err != nil {
		cfg = &utils.Config{}
	}

	host := cfg.Host
	if flags.server != "" {
		host.RootURI = flags.server
	}
	if flags.user != "" {
		host.Username = flags.user
	}
	if flags.password != "" {
		host.Password = flags.password
	}
	if host.RootURI == "" || host.Username == "" {
		fatalf(exitCodeConfigError, "Error: --server and --user are required (or set them in config.json)")
	}

	if flags.saveConfig {
		cfg.Host = host
		cfg.LogLevel = flags.logLevel
		if err := utils.SaveConfig(cfg); err != nil {
			logger.Error("Failed to save config", "error", err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fatalf(exitCodeConfigError, "Error: cannot determine home directory: %v", err)
	}

	profile, gamelistRoot, romBasePath := resolveProfile(flags, home)
	logger.Debug("Configuration resolved",
		"host", host.ToLoggable(),
		"target", profile.Key,
		"gamelist_root", gamelistRoot)

	fmt.Printf("Connecting to RomM server: %s\n", host.URL())
	client := romm.NewClient(host, cfg.ApiTimeout)

	platforms, err := client.GetPlatforms()
	if err != nil {
		fatalf(exitCodeConnectionError, "Error connecting to RomM server: %v", err)
	}
	fmt.Printf("Found %d platforms\n", len(platforms))

	if flags.listOnly {
		listPlatforms(platforms)
		return
	}

	if flags.platforms != "" {
		platforms = filterPlatforms(platforms, flags.platforms)
		if len(platforms) == 0 {
			fatalf(exitCodeConfigError, "No matching platforms found for: %s", flags.platforms)
		}
	}

	favoritesOnly := !flags.allRoms
	if favoritesOnly {
		fmt.Println("\n** Syncing FAVORITES only (use --all-roms to sync entire library) **")
	} else {
		fmt.Println("\n** WARNING: Syncing ALL ROMs (this may take a while) **")
	}

	kidIDs, err := client.KidFriendlyRomIDs()
	if err != nil {
		logger.Warn("Could not fetch kid-friendly collection", "error", err)
		kidIDs = map[int]struct{}{}
	}

	var covers *cache.Manager
	if !flags.dryRun {
		covers, err = cache.Open(cache.DefaultDBPath())
		if err != nil {
			logger.Warn("Cover cache unavailable, continuing without it", "error", err)
		} else {
			defer covers.Close()
		}
	}

	opts := sync.Options{
		GamelistRoot:   gamelistRoot,
		Profile:        profile,
		RomBasePath:    romBasePath,
		DownloadImages: !flags.noImages,
		DownloadRoms:   flags.downloadRoms,
		DryRun:         flags.dryRun,
		FavoritesOnly:  favoritesOnly,
		KidFriendlyIDs: kidIDs,
		Covers:         covers,
		Out:            os.Stdout,
	}

	totalRoms := 0
	for _, platform := range platforms {
		count, err := sync.SyncPlatform(client, platform, opts)
		if err != nil {
			logger.Error("Platform sync failed", "platform", platform.Slug, "error", err)
			fmt.Printf("  Error syncing %s: %v\n", platform.Slug, err)
			continue
		}
		totalRoms += count
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("Sync complete! Processed %d ROMs across %d platforms\n", totalRoms, len(platforms))
	if covers != nil {
		fmt.Printf("Cover cache: %d covers indexed\n", covers.CoverCount())
	}
	if flags.dryRun {
		fmt.Println("(This was a dry run - no files were modified)")
	}
	fmt.Println(strings.Repeat("=", 60))
}

// resolveProfile applies ES-DE auto-detection and overrides, exits on
// unmet path requirements, and returns home-expanded paths.
func resolveProfile(flags *cliFlags, home string) (targets.Profile, string, string) {
	profile, ok := targets.Builtin()[flags.target]
	if !ok {
		fatalf(exitCodeConfigError, "Unknown target %q (options: %s)", flags.target, strings.Join(targets.ProfileNames(), ", "))
	}
	fmt.Printf("Target system: %s\n", profile.Name)

	romBasePath := flags.romPath

	if !flags.noAutoDetect && profile.Key == "steamdeck" {
		detected, err := targets.DetectESDEPaths(home)
		if err != nil {
			fatalf(exitCodeConfigError, "Error reading ES-DE settings: %v", err)
		}

		if romBasePath == "" && detected.RomsPath != "" {
			romBasePath = detected.RomsPath
			fmt.Printf("Auto-detected ES-DE ROM path: %s\n", romBasePath)
		}
		if detected.MediaPath != "" {
			profile.ImagesPath = detected.MediaPath
			fmt.Printf("Auto-detected ES-DE media path: %s\n", detected.MediaPath)
		}

		if profile.ImagesPath == "" {
			fatalf(exitCodeConfigError, "Error: could not detect MediaDirectory from ES-DE settings.\nEnsure ES-DE is configured, or use --no-auto-detect with manual paths.")
		}
		if profile.RomsPath == "" && romBasePath == "" {
			fatalf(exitCodeConfigError, "Error: could not detect ROMDirectory from ES-DE settings.\nEnsure ES-DE is configured, or specify --rom-path manually.")
		}
	}

	if flags.noAutoDetect {
		fmt.Println("Auto-detection disabled - paths must be specified manually")
		if profile.ImagesPath == "" || (profile.RomsPath == "" && romBasePath == "") {
			fatalf(exitCodeConfigError, "Error: --no-auto-detect requires manual path configuration.\nEither remove --no-auto-detect or use --target retropie with custom paths.")
		}
	}

	gamelistRoot := profile.GamelistPath
	if flags.output != "" {
		gamelistRoot = flags.output
	}

	profile.ImagesPath = targets.ExpandHome(profile.ImagesPath, home)
	profile.RomsPath = targets.ExpandHome(profile.RomsPath, home)
	gamelistRoot = targets.ExpandHome(gamelistRoot, home)
	romBasePath = targets.ExpandHome(romBasePath, home)

	return profile, gamelistRoot, romBasePath
}

func listPlatforms(platforms []romm.Platform) {
	sorted := make([]romm.Platform, len(platforms))
	copy(sorted, platforms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	fmt.Println("\nAvailable platforms:")
	for _, p := range sorted {
		fmt.Printf("  %-30s -> %-20s (%d ROMs) - %s\n", p.Slug, targets.FolderFor(p.Slug), p.RomCount, p.Name)
	}
}

func filterPlatforms(platforms []romm.Platform, filter string) []romm.Platform {
	wanted := make(map[string]struct{})
	for _, slug := range strings.Split(filter, ",") {
		wanted[strings.TrimSpace(slug)] = struct{}{}
	}

	var filtered []romm.Platform
	for _, p := range platforms {
		if _, ok := wanted[p.Slug]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func fatalf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
