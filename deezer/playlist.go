package deezer

import (
	"context"
	"strconv"
	"strings"

	"deezer/deezer/model"

	"golang.org/x/text/cases"
)

// PlaylistSearchOptions adds playlist-only filters to SearchOptions.
type PlaylistSearchOptions struct {
	SearchOptions
	// PublicOnly sends public=true and drops any private playlist the
	// catalog still returns.
	PublicOnly bool
}

// PlaylistClient searches and looks up playlists.
type PlaylistClient struct {
	resourceClient
}

func NewPlaylistClient(t Transport, maxLimit int) *PlaylistClient {
	return &PlaylistClient{newResourceClient(t, maxLimit)}
}

// SearchByName finds playlists matching name.
func (c *PlaylistClient) SearchByName(ctx context.Context, name string, opts PlaylistSearchOptions) (*model.SearchResult[model.Playlist], error) {
	q, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	return c.searchFiltered(ctx, q, opts, nil)
}

// SearchByNameAndCreator finds playlists matching name whose owner name
// contains creator under Unicode case folding. The catalog has no owner
// filter, so matching happens on the returned page.
func (c *PlaylistClient) SearchByNameAndCreator(ctx context.Context, name, creator string, opts PlaylistSearchOptions) (*model.SearchResult[model.Playlist], error) {
	q, err := searchTerm("query", name)
	if err != nil {
		return nil, err
	}
	creator, err = searchTerm("creator_name", creator)
	if err != nil {
		return nil, err
	}

	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	creator = fold.String(unquote(creator))
	return c.searchFiltered(ctx, q, opts, func(p model.Playlist) bool {
		return strings.Contains(fold.String(p.Owner.Name), creator)
	})
}

// searchFiltered issues one playlist search. When any filter applies, a full page
// of maxLimit records is requested so dropped records do not use up the
// caller's limit; the filtered page is then cut to the effective limit.
func (c *PlaylistClient) searchFiltered(ctx context.Context, q string, opts PlaylistSearchOptions, keep func(model.Playlist) bool) (*model.SearchResult[model.Playlist], error) {
	params, limit, err := searchParams(q, opts.SearchOptions, c.maxLimit)
	if err != nil {
		return nil, err
	}
	if opts.PublicOnly {
		params.Set("public", "true")
		owner := keep
		keep = func(p model.Playlist) bool {
			return p.Public && (owner == nil || owner(p))
		}
	}
	if keep == nil {
		return search(ctx, c.transport, resourcePlaylist, params, limit, model.ParsePlaylist)
	}

	params.Set("limit", strconv.Itoa(c.maxLimit))
	result, err := search(ctx, c.transport, resourcePlaylist, params, c.maxLimit, model.ParsePlaylist)
	if err != nil {
		return nil, err
	}
	return truncate(filter(result, keep), limit), nil
}

func (c *PlaylistClient) Get(ctx context.Context, id int64) (*model.Playlist, error) {
	return fetch(ctx, c.transport, resourcePlaylist, id, model.ParsePlaylist)
}
