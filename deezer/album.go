package deezer

import (
	"context"

	"deezer/deezer/model"
)

// AlbumClient searches and looks up albums.
type AlbumClient struct {
	resourceClient
}

func NewAlbumClient(t Transport, maxLimit int) *AlbumClient {
	return &AlbumClient{newResourceClient(t, maxLimit)}
}

// SearchByName finds albums matching name. Search payloads usually carry
// no release date; lookups by id do.
func (c *AlbumClient) SearchByName(ctx context.Context, name string, opts SearchOptions) (*model.SearchResult[model.Album], error) {
	q, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	params, limit, err := searchParams(q, opts, c.maxLimit)
	if err != nil {
		return nil, err
	}
	return search(ctx, c.transport, resourceAlbum, params, limit, model.ParseAlbum)
}

func (c *AlbumClient) Get(ctx context.Context, id int64) (*model.Album, error) {
	return fetch(ctx, c.transport, resourceAlbum, id, model.ParseAlbum)
}
