package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError reports input that does not have the expected shape:
// either a caller argument or an element of an upstream payload.
type ValidationError struct {
	Resource string // "track", "artist", ... ; empty for caller arguments
	Field    string // dotted path of the offending field, if any
	Msg      string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if e.Resource != "" {
		b.WriteString(" for ")
		b.WriteString(e.Resource)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// noDate is what the catalog sends for albums without a known release date.
const noDate = "0000-00-00"

// object reads typed fields out of one raw JSON object. The first failure
// sticks; later reads return zero values and the caller checks err once.
type object struct {
	resource string
	prefix   string
	fields   map[string]json.RawMessage
	err      **ValidationError
}

func decodeObject(resource string, raw json.RawMessage) *object {
	var firstErr *ValidationError
	o := &object{resource: resource, err: &firstErr}
	if err := json.Unmarshal(raw, &o.fields); err != nil || o.fields == nil {
		o.fail("", "expected a JSON object, got %s", jsonKind(raw))
	}
	return o
}

func (o *object) failed() error {
	if *o.err != nil {
		return *o.err
	}
	return nil
}

func (o *object) fail(name, format string, args ...any) {
	if *o.err != nil {
		return
	}
	field := ""
	if name != "" {
		field = o.prefix + name
	}
	*o.err = &ValidationError{
		Resource: o.resource,
		Field:    field,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// lookup returns the raw value of a present, non-null field.
func (o *object) lookup(name string) (json.RawMessage, bool) {
	if *o.err != nil {
		return nil, false
	}
	v, ok := o.fields[name]
	if !ok || isNull(v) {
		return nil, false
	}
	return bytes.TrimSpace(v), true
}

func (o *object) require(name string) (json.RawMessage, bool) {
	if *o.err != nil {
		return nil, false
	}
	v, ok := o.lookup(name)
	if !ok {
		o.fail(name, "required field is missing")
	}
	return v, ok
}

func (o *object) int64(name string) int64 {
	v, ok := o.require(name)
	if !ok {
		return 0
	}
	return o.decodeInt(name, v)
}

func (o *object) decodeInt(name string, v json.RawMessage) int64 {
	// json.Number accepts quoted numbers, so reject strings up front.
	if jsonKind(v) != "number" {
		o.fail(name, "expected integer, got %s", jsonKind(v))
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		o.fail(name, "expected integer: %v", err)
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		o.fail(name, "expected integer, got %s", n.String())
		return 0
	}
	return i
}

func (o *object) count64(name string) int64 {
	n := o.int64(name)
	if n < 0 {
		o.fail(name, "must be non-negative, got %d", n)
		return 0
	}
	return n
}

func (o *object) count(name string) int {
	return int(o.count64(name))
}

func (o *object) optionalCount(name string) *int {
	v, ok := o.lookup(name)
	if !ok {
		return nil
	}
	n := o.decodeInt(name, v)
	if n < 0 {
		o.fail(name, "must be non-negative, got %d", n)
		return nil
	}
	c := int(n)
	return &c
}

func (o *object) str(name string) string {
	v, ok := o.require(name)
	if !ok {
		return ""
	}
	return o.decodeString(name, v)
}

func (o *object) decodeString(name string, v json.RawMessage) string {
	if jsonKind(v) != "string" {
		o.fail(name, "expected string, got %s", jsonKind(v))
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		o.fail(name, "expected string: %v", err)
	}
	return s
}

func (o *object) optionalString(name string) *string {
	v, ok := o.lookup(name)
	if !ok {
		return nil
	}
	s := o.decodeString(name, v)
	if *o.err != nil {
		return nil
	}
	return &s
}

func (o *object) boolean(name string) bool {
	v, ok := o.require(name)
	if !ok {
		return false
	}
	if jsonKind(v) != "boolean" {
		o.fail(name, "expected boolean, got %s", jsonKind(v))
		return false
	}
	return string(v) == "true"
}

func (o *object) optionalDate(name string) *Date {
	v, ok := o.lookup(name)
	if !ok {
		return nil
	}
	s := o.decodeString(name, v)
	if *o.err != nil || s == "" || s == noDate {
		return nil
	}
	d, err := ParseDate(s)
	if err != nil {
		o.fail(name, "%v", err)
		return nil
	}
	return &d
}

// child descends into a required nested object.
func (o *object) child(name string) *object {
	c := &object{resource: o.resource, prefix: o.prefix + name + ".", err: o.err}
	v, ok := o.require(name)
	if !ok {
		return c
	}
	if err := json.Unmarshal(v, &c.fields); err != nil || c.fields == nil {
		o.fail(name, "expected object, got %s", jsonKind(v))
	}
	return c
}

// firstChild descends into the first present nested object among names.
func (o *object) firstChild(names ...string) *object {
	for _, name := range names {
		if _, ok := o.lookup(name); ok {
			return o.child(name)
		}
	}
	return o.child(names[0])
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func jsonKind(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "nothing"
	}
	switch v[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// ParseTrack validates one raw track object.
func ParseTrack(raw json.RawMessage) (Track, error) {
	o := decodeObject("track", raw)
	artist := o.child("artist")
	album := o.child("album")
	t := Track{
		ID:             o.int64("id"),
		Title:          o.str("title"),
		Duration:       o.count("duration"),
		Rank:           o.count64("rank"),
		ExplicitLyrics: o.boolean("explicit_lyrics"),
		Artist:         ArtistRef{ID: artist.int64("id"), Name: artist.str("name")},
		Album:          AlbumRef{ID: album.int64("id"), Title: album.str("title")},
		Link:           o.optionalString("link"),
		Preview:        o.optionalString("preview"),
	}
	if err := o.failed(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// ParseArtist validates one raw artist object.
func ParseArtist(raw json.RawMessage) (Artist, error) {
	o := decodeObject("artist", raw)
	a := Artist{
		ID:            o.int64("id"),
		Name:          o.str("name"),
		NbAlbum:       o.count("nb_album"),
		NbFan:         o.count("nb_fan"),
		Link:          o.str("link"),
		PictureMedium: o.optionalString("picture_medium"),
	}
	if err := o.failed(); err != nil {
		return Artist{}, err
	}
	return a, nil
}

// ParseAlbum validates one raw album object.
func ParseAlbum(raw json.RawMessage) (Album, error) {
	o := decodeObject("album", raw)
	artist := o.child("artist")
	a := Album{
		ID:             o.int64("id"),
		Title:          o.str("title"),
		ReleaseDate:    o.optionalDate("release_date"),
		NbTracks:       o.count("nb_tracks"),
		Artist:         ArtistRef{ID: artist.int64("id"), Name: artist.str("name")},
		ExplicitLyrics: o.boolean("explicit_lyrics"),
		Link:           o.optionalString("link"),
	}
	if err := o.failed(); err != nil {
		return Album{}, err
	}
	return a, nil
}

// ParsePlaylist validates one raw playlist object. Search payloads name the
// owner "user", single-playlist lookups name it "creator".
func ParsePlaylist(raw json.RawMessage) (Playlist, error) {
	o := decodeObject("playlist", raw)
	owner := o.firstChild("user", "creator")
	p := Playlist{
		ID:          o.int64("id"),
		Title:       o.str("title"),
		NbTracks:    o.count("nb_tracks"),
		Public:      o.boolean("public"),
		Owner:       UserRef{ID: owner.int64("id"), Name: owner.str("name")},
		Description: o.optionalString("description"),
		Link:        o.optionalString("link"),
		Fans:        o.optionalCount("fans"),
	}
	if err := o.failed(); err != nil {
		return Playlist{}, err
	}
	return p, nil
}
