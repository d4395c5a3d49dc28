package deezer

import (
	"context"

	"deezer/deezer/model"
)

// TrackClient searches and looks up tracks.
type TrackClient struct {
	resourceClient
}

func NewTrackClient(t Transport, maxLimit int) *TrackClient {
	return &TrackClient{newResourceClient(t, maxLimit)}
}

// SearchByName finds tracks whose metadata matches name.
func (c *TrackClient) SearchByName(ctx context.Context, name string, opts SearchOptions) (*model.SearchResult[model.Track], error) {
	q, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	params, limit, err := searchParams(q, opts, c.maxLimit)
	if err != nil {
		return nil, err
	}
	return search(ctx, c.transport, resourceTrack, params, limit, model.ParseTrack)
}

// SearchByNameAndArtist scopes a track search to one artist using the
// advanced-search dialect: track:"<name>" artist:"<artist>".
func (c *TrackClient) SearchByNameAndArtist(ctx context.Context, name, artist string, opts SearchOptions) (*model.SearchResult[model.Track], error) {
	name, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	artist, err = searchTerm("artist_name", artist)
	if err != nil {
		return nil, err
	}
	params, limit, err := searchParams(quoted("track", name)+" "+quoted("artist", artist), opts, c.maxLimit)
	if err != nil {
		return nil, err
	}
	return search(ctx, c.transport, resourceTrack, params, limit, model.ParseTrack)
}

// Get looks up one track by id.
func (c *TrackClient) Get(ctx context.Context, id int64) (*model.Track, error) {
	return fetch(ctx, c.transport, resourceTrack, id, model.ParseTrack)
}
