package main

import (
	"encoding/json"
	"fmt"
	"io"

	"deezer/deezer/model"

	"github.com/urfave/cli/v2"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printResult writes a search page either as JSON or one line per record.
func printResult(c *cli.Context, result any, n, total int, line func(i int) string) error {
	if c.Bool("json") {
		return printJSON(c.App.Writer, result)
	}
	if n == 0 {
		fmt.Fprintln(c.App.Writer, "No results found.")
		return nil
	}
	for i := 0; i < n; i++ {
		fmt.Fprintln(c.App.Writer, line(i))
	}
	fmt.Fprintf(c.App.Writer, "Showing %d of %d results\n", n, total)
	return nil
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatTrack(t model.Track) string {
	explicit := ""
	if t.ExplicitLyrics {
		explicit = " [explicit]"
	}
	return fmt.Sprintf("%d\t%s by %s [%s] %s%s", t.ID, t.Title, t.Artist.Name, t.Album.Title, formatDuration(t.Duration), explicit)
}

func formatArtist(a model.Artist) string {
	return fmt.Sprintf("%d\t%s (%d albums, %d fans)", a.ID, a.Name, a.NbAlbum, a.NbFan)
}

func formatAlbum(a model.Album) string {
	released := "unknown"
	if a.ReleaseDate != nil {
		released = a.ReleaseDate.String()
	}
	return fmt.Sprintf("%d\t%s by %s (released %s, %d tracks)", a.ID, a.Title, a.Artist.Name, released, a.NbTracks)
}

func formatPlaylist(p model.Playlist) string {
	visibility := "private"
	if p.Public {
		visibility = "public"
	}
	return fmt.Sprintf("%d\t%s by %s (%d tracks, %s)", p.ID, p.Title, p.Owner.Name, p.NbTracks, visibility)
}
