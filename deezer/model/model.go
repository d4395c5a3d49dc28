package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the catalog.
const DateLayout = "2006-01-02"

// ArtistRef points at the artist owning a track or album.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AlbumRef points at the album a track belongs to.
type AlbumRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// UserRef points at the user owning a playlist.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Track describes one catalog track
type Track struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Duration       int       `json:"duration"` // seconds
	Rank           int64     `json:"rank"`
	ExplicitLyrics bool      `json:"explicit_lyrics"`
	Artist         ArtistRef `json:"artist"`
	Album          AlbumRef  `json:"album"`
	Link           *string   `json:"link,omitempty"`
	Preview        *string   `json:"preview,omitempty"`
}

// Artist describes one catalog artist
type Artist struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	NbAlbum       int     `json:"nb_album"`
	NbFan         int     `json:"nb_fan"`
	Link          string  `json:"link"`
	PictureMedium *string `json:"picture_medium,omitempty"`
}

// Album describes one catalog album
type Album struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	ReleaseDate    *Date     `json:"release_date,omitempty"` // nil when the catalog has no date
	NbTracks       int       `json:"nb_tracks"`
	Artist         ArtistRef `json:"artist"`
	ExplicitLyrics bool      `json:"explicit_lyrics"`
	Link           *string   `json:"link,omitempty"`
}

// Playlist describes one catalog playlist
type Playlist struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	NbTracks    int     `json:"nb_tracks"`
	Public      bool    `json:"public"`
	Owner       UserRef `json:"owner"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
	Fans        *int    `json:"fans,omitempty"`
}

// SearchResult is one page of records in upstream order.
type SearchResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"` // upstream hint, may exceed len(Data)
}

// Len returns the number of records on the page.
func (r *SearchResult[T]) Len() int {
	return len(r.Data)
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
