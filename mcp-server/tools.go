package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deezer/deezer"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const serverInfoURI = "deezer://server/info"

// catalogTools holds what every handler shares. Nothing in it changes after
// construction, so handlers may run concurrently.
type catalogTools struct {
	catalog      *deezer.Catalog
	baseURL      string
	defaultLimit int
	logger       *zap.Logger
}

func newCatalogTools(catalog *deezer.Catalog, baseURL string, defaultLimit int, logger *zap.Logger) *catalogTools {
	if defaultLimit <= 0 {
		defaultLimit = deezer.DefaultLimit
	}
	return &catalogTools{
		catalog:      catalog,
		baseURL:      baseURL,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func limitParam(defaultLimit, maxLimit int) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description(fmt.Sprintf("Number of results to return (default: %d). Values above %d are reduced to %d.", defaultLimit, maxLimit, maxLimit)),
		mcp.DefaultNumber(float64(defaultLimit)),
		mcp.Min(1),
	)
}

func orderParam(defaultOrder deezer.Order) mcp.ToolOption {
	orders := make([]string, len(deezer.Orders))
	for i, o := range deezer.Orders {
		orders[i] = string(o)
	}
	opts := []mcp.PropertyOption{
		mcp.Description("Sort order of the results"),
		mcp.Enum(orders...),
	}
	if defaultOrder != "" {
		opts = append(opts, mcp.DefaultString(string(defaultOrder)))
	}
	return mcp.WithString("order", opts...)
}

func strictParam() mcp.ToolOption {
	return mcp.WithBoolean("strict",
		mcp.Description("If true, disable fuzzy matching and only return exact matches"),
	)
}

func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)
	return mcp.NewTool(name, append(opts, readOnly()...)...)
}

// serverTools declares every tool with its parameter schema and handler.
func (ct *catalogTools) serverTools() []server.ServerTool {
	maxLimit := ct.catalog.Tracks.MaxLimit()

	return []server.ServerTool{
		{
			Tool: newTool("search_track", "Search for tracks by name on Deezer",
				mcp.WithString("track_name", mcp.Required(), mcp.Description("The name of the track to search for")),
				limitParam(ct.defaultLimit, maxLimit),
				strictParam(),
				orderParam(""),
			),
			Handler: ct.searchTrackHandler,
		},
		{
			Tool: newTool("search_track_by_artist", "Search for a track by name and artist on Deezer",
				mcp.WithString("track_name", mcp.Required(), mcp.Description("The name of the track to search for")),
				mcp.WithString("artist_name", mcp.Required(), mcp.Description("The name of the artist")),
				limitParam(1, maxLimit),
				orderParam(deezer.OrderRanking),
			),
			Handler: ct.searchTrackByArtistHandler,
		},
		{
			Tool: newTool("search_artist", "Search for artists by name on Deezer",
				mcp.WithString("artist_name", mcp.Required(), mcp.Description("The name of the artist to search for")),
				limitParam(ct.defaultLimit, maxLimit),
				strictParam(),
				orderParam(""),
			),
			Handler: ct.searchArtistHandler,
		},
		{
			Tool: newTool("search_album", "Search for albums by name on Deezer",
				mcp.WithString("album_name", mcp.Required(), mcp.Description("The name of the album to search for")),
				limitParam(ct.defaultLimit, maxLimit),
				strictParam(),
				orderParam(""),
			),
			Handler: ct.searchAlbumHandler,
		},
		{
			Tool: newTool("search_playlist", "Search for playlists by name on Deezer",
				mcp.WithString("playlist_name", mcp.Required(), mcp.Description("The name of the playlist to search for")),
				limitParam(ct.defaultLimit, maxLimit),
				mcp.WithBoolean("public_only",
					mcp.Description("Only return public playlists (default: false)"),
					mcp.DefaultBool(false),
				),
				strictParam(),
				orderParam(""),
			),
			Handler: ct.searchPlaylistHandler,
		},
		{
			Tool: newTool("search_playlist_by_creator", "Search for a playlist by name and creator for more precise results",
				mcp.WithString("playlist_name", mcp.Required(), mcp.Description("The name of the playlist to search for")),
				mcp.WithString("creator_name", mcp.Required(), mcp.Description("The creator/user name to narrow the search")),
				limitParam(1, maxLimit),
				mcp.WithBoolean("public_only",
					mcp.Description("Only return public playlists (default: false)"),
					mcp.DefaultBool(false),
				),
				orderParam(deezer.OrderRanking),
			),
			Handler: ct.searchPlaylistByCreatorHandler,
		},
		{
			Tool: newTool("get_track", "Get a track by its Deezer ID",
				mcp.WithNumber("track_id", mcp.Required(), mcp.Description("The Deezer track ID")),
			),
			Handler: ct.getTrackHandler,
		},
		{
			Tool: newTool("get_artist", "Get an artist by their Deezer ID",
				mcp.WithNumber("artist_id", mcp.Required(), mcp.Description("The Deezer artist ID")),
			),
			Handler: ct.getArtistHandler,
		},
		{
			Tool: newTool("get_album", "Get an album by its Deezer ID",
				mcp.WithNumber("album_id", mcp.Required(), mcp.Description("The Deezer album ID")),
			),
			Handler: ct.getAlbumHandler,
		},
		{
			Tool: newTool("get_playlist", "Get a playlist by its Deezer ID",
				mcp.WithNumber("playlist_id", mcp.Required(), mcp.Description("The Deezer playlist ID")),
			),
			Handler: ct.getPlaylistHandler,
		},
	}
}

func (ct *catalogTools) searchTrackHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trackName, err := requireString(request, "track_name")
	if err != nil {
		return ct.toolError("search_track", err), nil
	}
	opts, err := searchOptions(request, ct.defaultLimit, "")
	if err != nil {
		return ct.toolError("search_track", err), nil
	}

	result, err := ct.catalog.Tracks.SearchByName(ctx, trackName, opts)
	if err != nil {
		return ct.toolError("search_track", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) searchTrackByArtistHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trackName, err := requireString(request, "track_name")
	if err != nil {
		return ct.toolError("search_track_by_artist", err), nil
	}
	artistName, err := requireString(request, "artist_name")
	if err != nil {
		return ct.toolError("search_track_by_artist", err), nil
	}
	opts, err := searchOptions(request, 1, deezer.OrderRanking)
	if err != nil {
		return ct.toolError("search_track_by_artist", err), nil
	}

	result, err := ct.catalog.Tracks.SearchByNameAndArtist(ctx, trackName, artistName, opts)
	if err != nil {
		return ct.toolError("search_track_by_artist", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) searchArtistHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	artistName, err := requireString(request, "artist_name")
	if err != nil {
		return ct.toolError("search_artist", err), nil
	}
	opts, err := searchOptions(request, ct.defaultLimit, "")
	if err != nil {
		return ct.toolError("search_artist", err), nil
	}

	result, err := ct.catalog.Artists.SearchByName(ctx, artistName, opts)
	if err != nil {
		return ct.toolError("search_artist", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) searchAlbumHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	albumName, err := requireString(request, "album_name")
	if err != nil {
		return ct.toolError("search_album", err), nil
	}
	opts, err := searchOptions(request, ct.defaultLimit, "")
	if err != nil {
		return ct.toolError("search_album", err), nil
	}

	result, err := ct.catalog.Albums.SearchByName(ctx, albumName, opts)
	if err != nil {
		return ct.toolError("search_album", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) searchPlaylistHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistName, err := requireString(request, "playlist_name")
	if err != nil {
		return ct.toolError("search_playlist", err), nil
	}
	opts, err := searchOptions(request, ct.defaultLimit, "")
	if err != nil {
		return ct.toolError("search_playlist", err), nil
	}
	publicOnly, err := boolArgument(request, "public_only", false)
	if err != nil {
		return ct.toolError("search_playlist", err), nil
	}

	result, err := ct.catalog.Playlists.SearchByName(ctx, playlistName, deezer.PlaylistSearchOptions{
		SearchOptions: opts,
		PublicOnly:    publicOnly,
	})
	if err != nil {
		return ct.toolError("search_playlist", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) searchPlaylistByCreatorHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistName, err := requireString(request, "playlist_name")
	if err != nil {
		return ct.toolError("search_playlist_by_creator", err), nil
	}
	creatorName, err := requireString(request, "creator_name")
	if err != nil {
		return ct.toolError("search_playlist_by_creator", err), nil
	}
	opts, err := searchOptions(request, 1, deezer.OrderRanking)
	if err != nil {
		return ct.toolError("search_playlist_by_creator", err), nil
	}
	publicOnly, err := boolArgument(request, "public_only", false)
	if err != nil {
		return ct.toolError("search_playlist_by_creator", err), nil
	}

	result, err := ct.catalog.Playlists.SearchByNameAndCreator(ctx, playlistName, creatorName, deezer.PlaylistSearchOptions{
		SearchOptions: opts,
		PublicOnly:    publicOnly,
	})
	if err != nil {
		return ct.toolError("search_playlist_by_creator", err), nil
	}
	return ct.toolResult(result)
}

func (ct *catalogTools) getTrackHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "track_id")
	if err != nil {
		return ct.toolError("get_track", err), nil
	}
	track, err := ct.catalog.Tracks.Get(ctx, id)
	if err != nil {
		return ct.toolError("get_track", err), nil
	}
	return ct.toolResult(track)
}

func (ct *catalogTools) getArtistHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "artist_id")
	if err != nil {
		return ct.toolError("get_artist", err), nil
	}
	artist, err := ct.catalog.Artists.Get(ctx, id)
	if err != nil {
		return ct.toolError("get_artist", err), nil
	}
	return ct.toolResult(artist)
}

func (ct *catalogTools) getAlbumHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "album_id")
	if err != nil {
		return ct.toolError("get_album", err), nil
	}
	album, err := ct.catalog.Albums.Get(ctx, id)
	if err != nil {
		return ct.toolError("get_album", err), nil
	}
	return ct.toolResult(album)
}

func (ct *catalogTools) getPlaylistHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "playlist_id")
	if err != nil {
		return ct.toolError("get_playlist", err), nil
	}
	playlist, err := ct.catalog.Playlists.Get(ctx, id)
	if err != nil {
		return ct.toolError("get_playlist", err), nil
	}
	return ct.toolResult(playlist)
}

func (ct *catalogTools) toolResult(value any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError converts any failure into a caller-visible error result. The
// bracketed kind lets clients tell bad input from upstream trouble.
func (ct *catalogTools) toolError(tool string, err error) *mcp.CallToolResult {
	kind := deezer.KindOf(err)
	ct.logger.Warn("Tool call failed",
		zap.String("tool", tool),
		zap.String("kind", kind),
		zap.Error(err))

	if deezer.IsNotFound(err) {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed [%s]: not found: %v", tool, kind, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed [%s]: %v", tool, kind, err))
}

// serverInfo is served as the deezer://server/info resource.
type serverInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	BaseURL      string   `json:"base_url"`
	DefaultLimit int      `json:"default_limit"`
	MaxLimit     int      `json:"max_limit"`
	Tools        []string `json:"tools"`
}

func (ct *catalogTools) serverInfoHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	info := serverInfo{
		Name:         serverName,
		Version:      serverVersion,
		BaseURL:      ct.baseURL,
		DefaultLimit: ct.defaultLimit,
		MaxLimit:     ct.catalog.Tracks.MaxLimit(),
	}
	for _, tool := range ct.serverTools() {
		info.Tools = append(info.Tools, tool.Tool.Name)
	}

	infoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal server info: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(infoJSON),
		},
	}, nil
}

// loggingMiddleware records every tool call with its outcome and duration.
func loggingMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, request)

			fields := []zap.Field{
				zap.String("tool", request.Params.Name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Bool("is_error", result != nil && result.IsError),
			}
			if err != nil {
				logger.Error("Tool handler error", append(fields, zap.Error(err))...)
			} else {
				logger.Info("Tool call", fields...)
			}
			return result, err
		}
	}
}
