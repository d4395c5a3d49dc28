package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"deezer/deezer/model"
)

const (
	resourceTrack    = "track"
	resourceArtist   = "artist"
	resourceAlbum    = "album"
	resourcePlaylist = "playlist"
)

// Catalog groups the four resource clients over one transport.
type Catalog struct {
	Tracks    *TrackClient
	Artists   *ArtistClient
	Albums    *AlbumClient
	Playlists *PlaylistClient
}

// NewCatalog builds every resource client. maxLimit <= 0 selects
// DefaultMaxLimit.
func NewCatalog(t Transport, maxLimit int) *Catalog {
	return &Catalog{
		Tracks:    NewTrackClient(t, maxLimit),
		Artists:   NewArtistClient(t, maxLimit),
		Albums:    NewAlbumClient(t, maxLimit),
		Playlists: NewPlaylistClient(t, maxLimit),
	}
}

// resourceClient is the state every resource client shares.
type resourceClient struct {
	transport Transport
	maxLimit  int
}

func newResourceClient(t Transport, maxLimit int) resourceClient {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return resourceClient{transport: t, maxLimit: maxLimit}
}

// MaxLimit returns the page size larger requests are clamped to.
func (c resourceClient) MaxLimit() int {
	return c.maxLimit
}

// search runs one search and validates every element. A single malformed
// element fails the whole call.
func search[T any](ctx context.Context, t Transport, resource string, params url.Values, limit int, parse func(json.RawMessage) (T, error)) (*model.SearchResult[T], error) {
	page, err := t.Search(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(page.Data))
	for i, raw := range page.Data {
		item, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s result %d: %w", resource, i, err)
		}
		items = append(items, item)
	}

	return truncate(&model.SearchResult[T]{Data: items, Total: page.Total}, limit), nil
}

// truncate cuts r to at most limit records. Total is left alone.
func truncate[T any](r *model.SearchResult[T], limit int) *model.SearchResult[T] {
	if len(r.Data) > limit {
		r.Data = r.Data[:limit]
	}
	return r
}

// fetch looks up and validates one record by id.
func fetch[T any](ctx context.Context, t Transport, resource string, id int64, parse func(json.RawMessage) (T, error)) (*T, error) {
	if err := checkID(resource+"_id", id); err != nil {
		return nil, err
	}
	raw, err := t.Fetch(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	item, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", resource, id, err)
	}
	return &item, nil
}

// filter keeps the records matching keep. Total shrinks to the kept count
// once anything is dropped, since the upstream hint no longer applies.
func filter[T any](r *model.SearchResult[T], keep func(T) bool) *model.SearchResult[T] {
	kept := make([]T, 0, len(r.Data))
	for _, item := range r.Data {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(r.Data) {
		return r
	}
	return &model.SearchResult[T]{Data: kept, Total: len(kept)}
}
