package keiba

import (
	"context"
	"time"
)

// Page is a downloaded race result page, kept in the site's encoding.
type Page struct {
	ID        RaceID
	Body      []byte
	FetchedAt time.Time
}

// PageStore persists downloaded pages keyed by race identifier.
type PageStore interface {
	// Exists reports whether the page for id is stored.
	Exists(ctx context.Context, id RaceID) (bool, error)

	// Save stores the page atomically, replacing an existing one.
	Save(ctx context.Context, page *Page) error

	// Load returns the stored page.
	// Returns ENOTFOUND if the page was never downloaded.
	Load(ctx context.Context, id RaceID) (*Page, error)

	// List returns the identifiers of all stored pages in ascending order.
	List(ctx context.Context) ([]RaceID, error)
}

// Fetcher retrieves raw page bodies from URLs.
type Fetcher interface {
	// Fetch returns the body of the page at url without decoding it.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources.
	Close() error
}

// RateLimiter paces requests to the race database site.
type RateLimiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
