package crawl

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/keiba"
	"golang.org/x/sync/errgroup"
)

// Ingester parses stored pages and saves the races they describe.
type Ingester struct {
	Pages       keiba.PageStore
	Parser      keiba.RaceParser
	Races       keiba.RaceService
	Runs        keiba.RunService
	Concurrency int

	// Strict aborts the ingest on the first page that fails to parse or
	// save. Pages without results and unsupported races never fail.
	Strict bool

	// Now returns the ingest time of a race. Defaults to time.Now.
	Now func() time.Time
}

// ingestOutcome classifies the result of ingesting one page.
type ingestOutcome int

const (
	outcomeParsed ingestOutcome = iota
	outcomeSkipped
	outcomeUnchanged
	outcomeFailed
)

type ingestResult struct {
	id      keiba.RaceID
	race    *keiba.Race
	outcome ingestOutcome
	err     error
}

// Ingest parses the pages of ids, or of every stored page when ids is
// empty, and saves the parsed races. The run is recorded when Runs is set.
//
// Pages whose hash matches the stored race are left alone. Pages without a
// results table and races of unsupported categories are counted as
// skipped. Other failures are counted and reported through progress with
// the race identifier; in Strict mode the first one aborts the ingest and
// is returned.
func (in *Ingester) Ingest(ctx context.Context, ids []keiba.RaceID, progress ProgressFunc) (*keiba.Run, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = in.Pages.List(ctx); err != nil {
			return nil, err
		}
	}

	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	now := in.Now
	if now == nil {
		now = time.Now
	}

	run := &keiba.Run{}
	if in.Runs != nil {
		if err := in.Runs.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	total := len(ids)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan ingestResult, concurrency)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(wctx)
	g.SetLimit(concurrency)

	go func() {
		defer close(resultCh)
		for _, id := range ids {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				result := in.parse(gctx, id, now)
				resultCh <- result
				if in.Strict && result.outcome == outcomeFailed {
					return result.err
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	// Races are saved by the collector so storage sees a single writer.
	var abort error
	completed := 0
	for r := range resultCh {
		if abort != nil {
			continue
		}
		if r.outcome == outcomeParsed {
			if err := in.Races.SaveRace(ctx, r.race); err != nil {
				r.outcome = outcomeFailed
				r.err = fmt.Errorf("race %s: %w", r.id, err)
			}
		}

		completed++
		event := ProgressEvent{Completed: completed, Total: total, ID: r.id}
		switch r.outcome {
		case outcomeParsed:
			run.Parsed++
			event.Type = ProgressCompleted
		case outcomeSkipped:
			run.Skipped++
			event.Type = ProgressSkipped
			event.Error = r.err
		case outcomeUnchanged:
			run.Unchanged++
			event.Type = ProgressUnchanged
		case outcomeFailed:
			run.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
			if in.Strict {
				abort = r.err
				cancel()
			}
		}
		if progress != nil {
			progress(event)
		}
	}

	if abort == nil {
		abort = ctx.Err()
	}

	if in.Runs != nil {
		if err := in.Runs.FinishRun(context.WithoutCancel(ctx), run); err != nil && abort == nil {
			return run, err
		}
	}

	if abort != nil {
		return run, abort
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}
	return run, nil
}

// parse loads and parses one page. Storage is only read here.
func (in *Ingester) parse(ctx context.Context, id keiba.RaceID, now func() time.Time) ingestResult {
	result := ingestResult{id: id}
	fail := func(err error) ingestResult {
		result.outcome = outcomeFailed
		result.err = fmt.Errorf("race %s: %w", id, err)
		return result
	}

	page, err := in.Pages.Load(ctx, id)
	if err != nil {
		return fail(err)
	}
	hash := ComputeHash(page.Body)

	existing, err := in.Races.FindRaceByID(ctx, id)
	switch {
	case err == nil && existing.PageHash == hash:
		result.outcome = outcomeUnchanged
		return result
	case err != nil && keiba.ErrorCode(err) != keiba.ENOTFOUND:
		return fail(err)
	}

	info, err := in.Parser.ParseInformation(bytes.NewReader(page.Body))
	if keiba.IsSkippable(err) {
		result.outcome = outcomeSkipped
		result.err = err
		return result
	} else if err != nil {
		return fail(err)
	}

	entrants, err := in.Parser.ParseResults(bytes.NewReader(page.Body))
	if err != nil {
		return fail(err)
	}

	race := &keiba.Race{
		ID:          id,
		Information: info,
		Entrants:    entrants,
		PageHash:    hash,
		IngestedAt:  now(),
	}
	if err := race.Validate(); err != nil {
		return fail(err)
	}

	result.race = race
	result.outcome = outcomeParsed
	return result
}
