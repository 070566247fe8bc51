// Package fs stores downloaded race pages on the local file system.
package fs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/keiba"
)

// pageExt is the file extension of stored pages.
const pageExt = ".html"

// Ensure PageStore implements keiba.PageStore at compile time.
var _ keiba.PageStore = (*PageStore)(nil)

// PageStore implements keiba.PageStore as a directory of {id}.html files.
// Pages are saved through a temporary file and renamed into place, so a
// reader never sees a partially written page.
type PageStore struct {
	dir    string
	bounds keiba.IdentityBounds
}

// NewPageStore creates a PageStore rooted at dir. bounds is used to
// recognize page file names in List.
func NewPageStore(dir string, bounds keiba.IdentityBounds) *PageStore {
	return &PageStore{
		dir:    dir,
		bounds: bounds,
	}
}

// Dir returns the root directory of the store.
func (s *PageStore) Dir() string {
	return s.dir
}

func (s *PageStore) path(id keiba.RaceID) string {
	return filepath.Join(s.dir, id.String()+pageExt)
}

// Exists reports whether the page for id is stored.
func (s *PageStore) Exists(ctx context.Context, id keiba.RaceID) (bool, error) {
	_, err := os.Stat(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the page body atomically, replacing an existing page.
func (s *PageStore) Save(ctx context.Context, page *keiba.Page) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, page.ID.String()+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(page.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write page %s: %w", page.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if !page.FetchedAt.IsZero() {
		if err := os.Chtimes(tmp.Name(), page.FetchedAt, page.FetchedAt); err != nil {
			return err
		}
	}

	return os.Rename(tmp.Name(), s.path(page.ID))
}

// Load returns the stored page. FetchedAt is the file modification time.
func (s *PageStore) Load(ctx context.Context, id keiba.RaceID) (*keiba.Page, error) {
	path := s.path(id)
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, keiba.Errorf(keiba.ENOTFOUND, "page %s not downloaded", id)
	} else if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &keiba.Page{
		ID:        id,
		Body:      body,
		FetchedAt: info.ModTime(),
	}, nil
}

// List returns the identifiers of all stored pages in ascending order.
// Files whose names are not valid race identifiers are ignored.
func (s *PageStore) List(ctx context.Context) ([]keiba.RaceID, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []keiba.RaceID{}, nil
	} else if err != nil {
		return nil, err
	}

	ids := make([]keiba.RaceID, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), pageExt)
		if !ok {
			continue
		}
		id, err := keiba.ParseRaceID(s.bounds, name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b keiba.RaceID) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return ids, nil
}

