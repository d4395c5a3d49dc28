package deezer

import (
	"context"

	"deezer/deezer/model"
)

// ArtistClient searches and looks up artists.
type ArtistClient struct {
	resourceClient
}

func NewArtistClient(t Transport, maxLimit int) *ArtistClient {
	return &ArtistClient{newResourceClient(t, maxLimit)}
}

// SearchByName finds artists matching name.
func (c *ArtistClient) SearchByName(ctx context.Context, name string, opts SearchOptions) (*model.SearchResult[model.Artist], error) {
	q, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	params, limit, err := searchParams(q, opts, c.maxLimit)
	if err != nil {
		return nil, err
	}
	return search(ctx, c.transport, resourceArtist, params, limit, model.ParseArtist)
}

func (c *ArtistClient) Get(ctx context.Context, id int64) (*model.Artist, error) {
	return fetch(ctx, c.transport, resourceArtist, id, model.ParseArtist)
}
