package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"deezer/config"
	"deezer/deezer"
	"deezer/deezer/model"
	"deezer/logging"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runner carries what the commands share once Before has run.
type runner struct {
	catalog *deezer.Catalog
	logger  *zap.Logger
}

func newApp() *cli.App {
	r := &runner{}
	return &cli.App{
		Name:  "deezer",
		Usage: "Search the Deezer catalog from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
		},
		Before:   r.setup,
		After:    r.teardown,
		Commands: r.commands(),
	}
}

func (r *runner) setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Log to stderr only; the CLI has no long-running session worth a file.
	r.logger, err = logging.InitLogger(cfg.LogLevel, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	opts := cfg.ClientOptions()
	opts.Logger = r.logger
	client, err := deezer.NewClient(opts)
	if err != nil {
		return err
	}
	r.catalog = deezer.NewCatalog(client, cfg.MaxLimit)
	return nil
}

func (r *runner) teardown(c *cli.Context) error {
	if r.logger != nil {
		_ = r.logger.Sync()
	}
	return nil
}

func searchFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "number of results (0 selects the server default)",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "disable fuzzy matching",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "sort order, e.g. RANKING or DURATION_DESC",
		},
	}, extra...)
}

func searchOptions(c *cli.Context) deezer.SearchOptions {
	return deezer.SearchOptions{
		Limit:  c.Int("limit"),
		Strict: c.Bool("strict"),
		Order:  deezer.Order(strings.ToUpper(c.String("order"))),
	}
}

// searchName joins the positional arguments so multi-word names need no quoting.
func searchName(c *cli.Context) (string, error) {
	if c.Args().Len() == 0 {
		return "", fmt.Errorf("missing search term, usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
	}
	return strings.Join(c.Args().Slice(), " "), nil
}

func (r *runner) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "track",
			Usage:     "Search tracks by name",
			ArgsUsage: "<name>",
			Flags: searchFlags(&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "only match tracks by this artist",
			}),
			Action: r.searchTracks,
		},
		{
			Name:      "artist",
			Usage:     "Search artists by name",
			ArgsUsage: "<name>",
			Flags:     searchFlags(),
			Action:    r.searchArtists,
		},
		{
			Name:      "album",
			Usage:     "Search albums by name",
			ArgsUsage: "<name>",
			Flags:     searchFlags(),
			Action:    r.searchAlbums,
		},
		{
			Name:      "playlist",
			Usage:     "Search playlists by name",
			ArgsUsage: "<name>",
			Flags: searchFlags(
				&cli.BoolFlag{
					Name:  "public-only",
					Usage: "only return public playlists",
				},
				&cli.StringFlag{
					Name:  "creator",
					Usage: "only match playlists whose creator name contains this",
				},
			),
			Action: r.searchPlaylists,
		},
		{
			Name:      "get",
			Usage:     "Look up a single record by id",
			ArgsUsage: "<track|artist|album|playlist> <id>",
			Action:    r.get,
		},
	}
}

func (r *runner) searchTracks(c *cli.Context) error {
	name, err := searchName(c)
	if err != nil {
		return err
	}
	opts := searchOptions(c)

	if artist := c.String("artist"); artist != "" {
		result, err := r.catalog.Tracks.SearchByNameAndArtist(c.Context, name, artist, opts)
		if err != nil {
			return err
		}
		return printResult(c, result, len(result.Data), result.Total, func(i int) string { return formatTrack(result.Data[i]) })
	}

	result, err := r.catalog.Tracks.SearchByName(c.Context, name, opts)
	if err != nil {
		return err
	}
	return printResult(c, result, len(result.Data), result.Total, func(i int) string { return formatTrack(result.Data[i]) })
}

func (r *runner) searchArtists(c *cli.Context) error {
	name, err := searchName(c)
	if err != nil {
		return err
	}
	result, err := r.catalog.Artists.SearchByName(c.Context, name, searchOptions(c))
	if err != nil {
		return err
	}
	return printResult(c, result, len(result.Data), result.Total, func(i int) string { return formatArtist(result.Data[i]) })
}

func (r *runner) searchAlbums(c *cli.Context) error {
	name, err := searchName(c)
	if err != nil {
		return err
	}
	result, err := r.catalog.Albums.SearchByName(c.Context, name, searchOptions(c))
	if err != nil {
		return err
	}
	return printResult(c, result, len(result.Data), result.Total, func(i int) string { return formatAlbum(result.Data[i]) })
}

func (r *runner) searchPlaylists(c *cli.Context) error {
	name, err := searchName(c)
	if err != nil {
		return err
	}
	opts := deezer.PlaylistSearchOptions{
		SearchOptions: searchOptions(c),
		PublicOnly:    c.Bool("public-only"),
	}

	var result *model.SearchResult[model.Playlist]
	if creator := c.String("creator"); creator != "" {
		result, err = r.catalog.Playlists.SearchByNameAndCreator(c.Context, name, creator, opts)
	} else {
		result, err = r.catalog.Playlists.SearchByName(c.Context, name, opts)
	}
	if err != nil {
		return err
	}
	return printResult(c, result, len(result.Data), result.Total, func(i int) string { return formatPlaylist(result.Data[i]) })
}

func (r *runner) get(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: %s get %s", c.App.Name, c.Command.ArgsUsage)
	}
	resource := c.Args().Get(0)
	id, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", c.Args().Get(1), err)
	}

	var record any
	var line string
	switch resource {
	case "track":
		t, err := r.catalog.Tracks.Get(c.Context, id)
		if err != nil {
			return notFound(resource, id, err)
		}
		record, line = t, formatTrack(*t)
	case "artist":
		a, err := r.catalog.Artists.Get(c.Context, id)
		if err != nil {
			return notFound(resource, id, err)
		}
		record, line = a, formatArtist(*a)
	case "album":
		a, err := r.catalog.Albums.Get(c.Context, id)
		if err != nil {
			return notFound(resource, id, err)
		}
		record, line = a, formatAlbum(*a)
	case "playlist":
		p, err := r.catalog.Playlists.Get(c.Context, id)
		if err != nil {
			return notFound(resource, id, err)
		}
		record, line = p, formatPlaylist(*p)
	default:
		return fmt.Errorf("unknown resource %q, expected track, artist, album or playlist", resource)
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, record)
	}
	fmt.Fprintln(c.App.Writer, line)
	return nil
}

func notFound(resource string, id int64, err error) error {
	if deezer.IsNotFound(err) {
		return fmt.Errorf("%s %d not found", resource, id)
	}
	return err
}
