package gamelist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// Build creates a gamelist document from scratch. It is a pure function of
// the entry list; the previous document on disk is never consulted.
func Build(entries []Entry) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("gameList")
	for _, entry := range entries {
		game := root.CreateElement("game")
		game.CreateElement("path").SetText(entry.Path)
		game.CreateElement("name").SetText(entry.Name)

		setOptional(game, "desc", entry.Desc)
		setOptional(game, "image", entry.Image)
		setOptional(game, "rating", entry.Rating)
		setOptional(game, "releasedate", entry.ReleaseDate)
		setOptional(game, "developer", entry.Developer)
		setOptional(game, "publisher", entry.Publisher)
		setOptional(game, "genre", entry.Genre)
		setOptional(game, "players", entry.Players)
		if entry.KidGame {
			game.CreateElement("kidgame").SetText("true")
		}
	}

	doc.Indent(2)
	return doc
}

func setOptional(game *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	game.CreateElement(tag).SetText(value)
}

// Write serializes entries to a gamelist.xml at path, creating parent
// directories as needed.
func Write(entries []Entry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating gamelist directory: %w", err)
	}

	doc := Build(entries)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
