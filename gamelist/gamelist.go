// Package gamelist reads and writes EmulationStation gamelist.xml
// documents. Decoding produces an ordered name-keyed index of previously
// synced games; encoding always builds a fresh document from scratch and
// never merges with an existing one.
package gamelist

// Entry is one fully-resolved <game> node. Optional fields are empty
// strings when absent and their nodes are omitted from the output.
type Entry struct {
	Path        string
	Name        string
	Desc        string
	Image       string
	Rating      string
	ReleaseDate string
	Developer   string
	Publisher   string
	Genre       string
	Players     string
	KidGame     bool
}

// IndexEntry is the {path, image} projection of a previously synced game,
// kept only for orphan detection.
type IndexEntry struct {
	Path  string
	Image string
}

// Index maps game display names to their recorded artifact paths,
// preserving document order. Name is the sole join key between sync
// passes; the document format has no stable identifier field.
type Index struct {
	names   []string
	entries map[string]IndexEntry
}

func NewIndex() *Index {
	return &Index{entries: make(map[string]IndexEntry)}
}

// Add records an entry. A duplicate name keeps its original position but
// takes the newer value, matching how a name-keyed map aliases.
func (ix *Index) Add(name string, entry IndexEntry) {
	if _, exists := ix.entries[name]; !exists {
		ix.names = append(ix.names, name)
	}
	ix.entries[name] = entry
}

func (ix *Index) Get(name string) (IndexEntry, bool) {
	entry, ok := ix.entries[name]
	return entry, ok
}

func (ix *Index) Len() int {
	return len(ix.names)
}

// Names returns the game names in document order.
func (ix *Index) Names() []string {
	return ix.names
}
