package gamelist

import (
	"log/slog"
	"os"

	"github.com/beevik/etree"
)

// ParseExisting reads a gamelist.xml into an Index. A missing or
// unparseable document is never fatal; it degrades to an empty index so a
// first sync and a recovery from corruption look the same.
func ParseExisting(path string) *Index {
	logger := slog.Default()
	index := NewIndex()

	if _, err := os.Stat(path); err != nil {
		return index
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		logger.Warn("Could not parse existing gamelist, treating as empty", "path", path, "error", err)
		return index
	}

	root := doc.Root()
	if root == nil {
		logger.Warn("Existing gamelist has no root element, treating as empty", "path", path)
		return index
	}

	for _, game := range root.SelectElements("game") {
		name := childText(game, "name")
		if name == "" {
			// Entries without a name cannot be reconciled; skip them.
			continue
		}

		index.Add(name, IndexEntry{
			Path:  childText(game, "path"),
			Image: childText(game, "image"),
		})
	}

	return index
}

func childText(parent *etree.Element, tag string) string {
	if child := parent.SelectElement(tag); child != nil {
		return child.Text()
	}
	return ""
}
