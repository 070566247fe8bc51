// Package crawl orchestrates downloading race pages and ingesting them into
// race storage.
package crawl

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/bloom"
	"golang.org/x/sync/errgroup"
)

// Defaults for Downloader and Ingester.
const (
	DefaultConcurrency = 4

	// storedFalsePositiveRate sizes the filter of already stored pages.
	// A false positive costs one extra Exists call.
	storedFalsePositiveRate = 0.001
)

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressUnchanged
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a download or ingest.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ID        keiba.RaceID
	Error     error
}

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)

// Downloader fetches race result pages into a page store.
type Downloader struct {
	Fetcher     keiba.Fetcher
	Pages       keiba.PageStore
	RateLimiter keiba.RateLimiter
	BaseURL     string
	Concurrency int

	// Now returns the fetch time of a page. Defaults to time.Now.
	Now func() time.Time
}

// DownloadResult holds the outcome of a download.
type DownloadResult struct {
	Downloaded int
	Stored     int
	Failed     int
	Bytes      int
}

type downloadResult struct {
	id    keiba.RaceID
	bytes int
	err   error
}

// Download fetches every identifier whose page is not stored yet.
// Repeated identifiers are fetched once. Pages are stored regardless of
// content; telling results from placeholders is the parser's job.
//
// Fetch and store failures are counted and reported through progress.
// Only cancellation aborts the download.
func (d *Downloader) Download(ctx context.Context, ids []keiba.RaceID, progress ProgressFunc) (*DownloadResult, error) {
	pending, stored, err := d.pending(ctx, ids)
	if err != nil {
		return nil, err
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	baseURL := d.BaseURL
	if baseURL == "" {
		baseURL = keiba.DefaultBaseURL
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	total := len(pending)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan downloadResult, concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		defer close(resultCh)
		for _, id := range pending {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				result := d.download(gctx, id, baseURL, now)
				resultCh <- result
				if errors.Is(result.err, context.Canceled) || errors.Is(result.err, context.DeadlineExceeded) {
					return result.err
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	result := &DownloadResult{Stored: stored}
	completed := 0
	for r := range resultCh {
		completed++
		event := ProgressEvent{Completed: completed, Total: total, ID: r.id}
		if r.err != nil {
			result.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			result.Downloaded++
			result.Bytes += r.bytes
			event.Type = ProgressCompleted
		}
		if progress != nil {
			progress(event)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}
	return result, nil
}

// pending returns the identifiers still to fetch, sorted and deduplicated,
// and the number already stored.
func (d *Downloader) pending(ctx context.Context, ids []keiba.RaceID) ([]keiba.RaceID, int, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b keiba.RaceID) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	sorted = slices.Compact(sorted)

	existing, err := d.Pages.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter := bloom.NewFilter(uint(max(len(existing), 1)), storedFalsePositiveRate)
	for _, id := range existing {
		filter.Add(id)
	}

	pending := make([]keiba.RaceID, 0, len(sorted))
	stored := 0
	for _, id := range sorted {
		if filter.Test(id) {
			ok, err := d.Pages.Exists(ctx, id)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				stored++
				continue
			}
		}
		pending = append(pending, id)
	}
	return pending, stored, nil
}

func (d *Downloader) download(ctx context.Context, id keiba.RaceID, baseURL string, now func() time.Time) downloadResult {
	result := downloadResult{id: id}

	if d.RateLimiter != nil {
		if err := d.RateLimiter.Wait(ctx); err != nil {
			result.err = err
			return result
		}
	}

	body, err := d.Fetcher.Fetch(ctx, id.URL(baseURL))
	if err != nil {
		result.err = err
		return result
	}

	if err := d.Pages.Save(ctx, &keiba.Page{ID: id, Body: body, FetchedAt: now()}); err != nil {
		result.err = err
		return result
	}
	result.bytes = len(body)
	return result
}
