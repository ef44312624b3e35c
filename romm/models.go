package romm

import "encoding/json"

type Platform struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	FSSlug   string `json:"fs_slug"`
	Name     string `json:"name"`
	RomCount int    `json:"rom_count"`
}

type Collection struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ROMCount    int    `json:"rom_count"`
	IsPublic    bool   `json:"is_public"`
	UserID      int    `json:"user_id"`
}

// IGDBMetadata carries the metadata scraped from IGDB for a ROM.
// TotalRating is a json.Number because older RomM versions serialize it
// as a string and newer ones as a float.
type IGDBMetadata struct {
	TotalRating json.Number `json:"total_rating"`
	Developers  []string    `json:"developers"`
	Publishers  []string    `json:"publishers"`
	GameModes   []string    `json:"game_modes"`
}

type Rom struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	FSName         string `json:"fs_name"`
	FileName       string `json:"file_name"`
	Summary        string `json:"summary"`
	PlatformID     int    `json:"platform_id"`
	PlatformSlug   string `json:"platform_slug"`
	PlatformFSSlug string `json:"platform_fs_slug"`

	URLCover            string `json:"url_cover"`
	PathCoverSmall      string `json:"path_cover_s"`
	PathCoverLarge      string `json:"path_cover_l"`
	URLScreenshot       string `json:"url_screenshot"`
	PathScreenshotSmall string `json:"path_screenshot_s"`
	PathScreenshotLarge string `json:"path_screenshot_l"`

	FirstReleaseDate string        `json:"first_release_date"`
	Genres           []string      `json:"genres"`
	IGDBMetadata     *IGDBMetadata `json:"igdb_metadata"`
	Favorite         bool          `json:"favorite"`
}

// FSSlug returns the platform directory slug for a ROM, preferring the
// filesystem slug over the canonical one.
func (r Rom) FSSlug() string {
	if r.PlatformFSSlug != "" {
		return r.PlatformFSSlug
	}
	return r.PlatformSlug
}

// HasCover reports whether any cover reference is present, external or
// server-hosted.
func (r Rom) HasCover() bool {
	return r.URLCover != "" || r.PathCoverSmall != "" || r.PathCoverLarge != ""
}
