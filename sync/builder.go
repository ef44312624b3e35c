package sync

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"rommsync/gamelist"
	"rommsync/romm"
	"rommsync/targets"
)

const imageExt = ".png"

// BuildEntry maps one remote ROM record to a gamelist entry. It performs
// no I/O; any malformed or missing field is tolerated by omitting the
// corresponding output field.
func BuildEntry(rom romm.Rom, folder string, romBasePath string, kidIDs map[int]struct{}, profile targets.Profile) gamelist.Entry {
	filename := rom.FSName
	if filename == "" {
		filename = rom.FileName
	}

	name := rom.Name
	if name == "" {
		name = "Unknown"
	}

	// Fall back to the display name when no canonical filename exists.
	if filename == "" {
		filename = name
	}

	entry := gamelist.Entry{
		Name: name,
		Desc: rom.Summary,
	}

	if romBasePath != "" {
		entry.Path = fmt.Sprintf("%s/%s/%s", romBasePath, folder, filename)
	} else {
		entry.Path = "./" + filename
	}

	if rom.HasCover() {
		stem := strings.TrimSuffix(filename, filepath.Ext(filename))
		if profile.ImageSubdir != "" {
			entry.Image = fmt.Sprintf("%s/%s/%s/%s%s", profile.ImagesPath, folder, profile.ImageSubdir, stem, imageExt)
		} else {
			entry.Image = fmt.Sprintf("%s/%s/%s%s", profile.ImagesPath, folder, stem, imageExt)
		}
	}

	entry.ReleaseDate = gamelist.FormatESDate(rom.FirstReleaseDate)

	if len(rom.Genres) > 0 {
		entry.Genre = strings.Join(rom.Genres, ", ")
	}

	if meta := rom.IGDBMetadata; meta != nil {
		if meta.TotalRating != "" {
			if rating, err := meta.TotalRating.Float64(); err == nil {
				entry.Rating = fmt.Sprintf("%.2f", rating/100.0)
			}
		}
		if len(meta.Developers) > 0 {
			entry.Developer = strings.Join(meta.Developers, ", ")
		}
		if len(meta.Publishers) > 0 {
			entry.Publisher = strings.Join(meta.Publishers, ", ")
		}
		if len(meta.GameModes) > 0 {
			if slices.Contains(meta.GameModes, "Multiplayer") || slices.Contains(meta.GameModes, "Co-operative") {
				entry.Players = "4"
			} else {
				entry.Players = "1"
			}
		}
	}

	if _, ok := kidIDs[rom.ID]; ok && rom.ID != 0 {
		entry.KidGame = true
	}

	return entry
}

// CoverFilename derives the on-disk cover filename for a ROM: the item
// filename's stem plus the fixed image extension, matching what BuildEntry
// records in the gamelist.
func CoverFilename(rom romm.Rom) string {
	filename := rom.FSName
	if filename == "" {
		filename = rom.FileName
	}
	if filename == "" {
		filename = rom.Name
	}
	if filename == "" {
		filename = "unknown"
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + imageExt
}
