package romm

import (
	"encoding/json"
	"fmt"
)

type RomsQuery struct {
	PlatformID   int `qs:"platform_id,omitempty"`
	CollectionID int `qs:"collection_id,omitempty"`
	Limit        int `qs:"limit,omitempty"`
}

// RomsPage is the normalized result of a ROM listing. The server returns
// either a paginated object or a flat array depending on version; both
// shapes are folded into this one before anything downstream sees them.
type RomsPage struct {
	Items []Rom `json:"items"`
	Total int   `json:"total"`
}

const defaultRomsLimit = 1000

func (c *Client) GetRoms(query RomsQuery) (RomsPage, error) {
	if query.Limit == 0 {
		query.Limit = defaultRomsLimit
	}

	var raw json.RawMessage
	if err := c.doRequest("GET", endpointRoms, query, &raw); err != nil {
		return RomsPage{}, err
	}
	return normalizeRomsPage(raw)
}

// GetFavoriteRoms fetches the favorites-filtered ROM set for a platform.
// Returns ErrNoFavoritesCollection when the account has no Favourites
// collection, so the caller can abort before touching local state.
func (c *Client) GetFavoriteRoms(platformID int) (RomsPage, error) {
	collection, found, err := c.FavoritesCollection()
	if err != nil {
		return RomsPage{}, fmt.Errorf("looking up favourites collection: %w", err)
	}
	if !found {
		return RomsPage{}, ErrNoFavoritesCollection
	}

	return c.GetRoms(RomsQuery{
		PlatformID:   platformID,
		CollectionID: collection.ID,
	})
}

func (c *Client) GetRom(id int) (Rom, error) {
	var rom Rom
	err := c.doRequest("GET", fmt.Sprintf(endpointRomByID, id), nil, &rom)
	return rom, err
}

func normalizeRomsPage(raw []byte) (RomsPage, error) {
	var page RomsPage
	if err := json.Unmarshal(raw, &page); err == nil {
		return page, nil
	}

	var items []Rom
	if err := json.Unmarshal(raw, &items); err != nil {
		return RomsPage{}, fmt.Errorf("unexpected roms response shape: %w", err)
	}
	return RomsPage{Items: items, Total: len(items)}, nil
}
