package deezer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is used when the caller does not ask for a page size.
	DefaultLimit = 10
	// DefaultMaxLimit is the largest page size sent upstream.
	DefaultMaxLimit = 25
)

// Order is a catalog sort order for search endpoints.
type Order string

const (
	OrderRanking      Order = "RANKING"
	OrderTrackAsc     Order = "TRACK_ASC"
	OrderTrackDesc    Order = "TRACK_DESC"
	OrderArtistAsc    Order = "ARTIST_ASC"
	OrderArtistDesc   Order = "ARTIST_DESC"
	OrderAlbumAsc     Order = "ALBUM_ASC"
	OrderAlbumDesc    Order = "ALBUM_DESC"
	OrderRatingAsc    Order = "RATING_ASC"
	OrderRatingDesc   Order = "RATING_DESC"
	OrderDurationAsc  Order = "DURATION_ASC"
	OrderDurationDesc Order = "DURATION_DESC"
)

// Orders lists every accepted sort order.
var Orders = []Order{
	OrderRanking,
	OrderTrackAsc, OrderTrackDesc,
	OrderArtistAsc, OrderArtistDesc,
	OrderAlbumAsc, OrderAlbumDesc,
	OrderRatingAsc, OrderRatingDesc,
	OrderDurationAsc, OrderDurationDesc,
}

// Valid reports whether o is empty or a known order.
func (o Order) Valid() bool {
	if o == "" {
		return true
	}
	for _, known := range Orders {
		if o == known {
			return true
		}
	}
	return false
}

// SearchOptions are the filters shared by every search endpoint.
type SearchOptions struct {
	// Limit is the requested page size. Zero selects DefaultLimit; values
	// above the client maximum are silently clamped to it.
	Limit int
	// Strict disables fuzzy matching upstream.
	Strict bool
	// Order is empty for the catalog default.
	Order Order
}

// EffectiveLimit returns the page size actually sent for a request.
func EffectiveLimit(limit, maxLimit int) (int, error) {
	if limit < 0 {
		return 0, &ValidationError{Field: "limit", Msg: fmt.Sprintf("must be a positive integer, got %d", limit)}
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

// searchTerm trims a criterion and rejects blanks, including terms made
// of nothing but double quotes. Quotes are otherwise kept so plain
// searches can ask for an exact phrase.
func searchTerm(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if unquote(value) == "" {
		if field == "query" {
			return "", ErrEmptyQuery
		}
		return "", &ValidationError{Field: field, Msg: "empty query"}
	}
	return value, nil
}

// unquote drops double quotes, which delimit advanced-search terms.
func unquote(term string) string {
	return strings.TrimSpace(strings.ReplaceAll(term, `"`, ""))
}

// quoted renders a term in the advanced-search dialect,
// e.g. artist:"Daft Punk".
func quoted(key, term string) string {
	return key + `:"` + unquote(term) + `"`
}

// searchParams builds the query string shared by all resources and returns
// it with the effective limit.
func searchParams(q string, opts SearchOptions, maxLimit int) (url.Values, int, error) {
	limit, err := EffectiveLimit(opts.Limit, maxLimit)
	if err != nil {
		return nil, 0, err
	}
	if !opts.Order.Valid() {
		return nil, 0, &ValidationError{Field: "order", Msg: fmt.Sprintf("unknown sort order %q", opts.Order)}
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	if opts.Strict {
		params.Set("strict", "on")
	}
	if opts.Order != "" {
		params.Set("order", string(opts.Order))
	}
	return params, limit, nil
}

// checkID rejects identifiers that cannot name a catalog record.
func checkID(field string, id int64) error {
	if id == 0 {
		return &ValidationError{Field: field, Msg: "must be a non-zero integer"}
	}
	return nil
}
