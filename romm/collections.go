package romm

import "strings"

func (c *Client) GetCollections() ([]Collection, error) {
	var collections []Collection
	err := c.doRequest("GET", endpointCollections, nil, &collections)
	return collections, err
}

// FindCollection locates a collection whose name contains substr,
// case-insensitively. Collection names vary between installs
// ("Favourites" vs "Favorites", "Kid Friendly" vs "Kids"), so a substring
// match is the only durable lookup.
func (c *Client) FindCollection(substr string) (Collection, bool, error) {
	collections, err := c.GetCollections()
	if err != nil {
		return Collection{}, false, err
	}

	needle := strings.ToLower(substr)
	for _, collection := range collections {
		if strings.Contains(strings.ToLower(collection.Name), needle) {
			return collection, true, nil
		}
	}
	return Collection{}, false, nil
}

func (c *Client) FavoritesCollection() (Collection, bool, error) {
	return c.FindCollection("favour")
}

// KidFriendlyRomIDs returns the set of ROM IDs in the kid-friendly
// collection. A missing collection degrades to an empty set.
func (c *Client) KidFriendlyRomIDs() (map[int]struct{}, error) {
	collection, found, err := c.FindCollection("kid")
	if err != nil {
		return nil, err
	}
	if !found {
		return map[int]struct{}{}, nil
	}

	page, err := c.GetRoms(RomsQuery{CollectionID: collection.ID, Limit: kidCollectionLimit})
	if err != nil {
		return nil, err
	}

	ids := make(map[int]struct{}, len(page.Items))
	for _, rom := range page.Items {
		if rom.ID != 0 {
			ids[rom.ID] = struct{}{}
		}
	}
	return ids, nil
}

const kidCollectionLimit = 10000
