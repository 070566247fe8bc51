package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/keiba"
)

// Ensure LoggingRaceParser implements keiba.RaceParser.
var _ keiba.RaceParser = (*LoggingRaceParser)(nil)

// LoggingRaceParser wraps a RaceParser with logging. Failures carry the
// error code and the field that failed; pages without results and
// unsupported races are logged at debug level.
type LoggingRaceParser struct {
	next   keiba.RaceParser
	logger *slog.Logger
}

// NewLoggingRaceParser creates a new LoggingRaceParser.
func NewLoggingRaceParser(next keiba.RaceParser, logger *slog.Logger) *LoggingRaceParser {
	return &LoggingRaceParser{next: next, logger: logger}
}

// ParseInformation delegates to the wrapped parser and logs the operation.
func (p *LoggingRaceParser) ParseInformation(r io.Reader) (info *keiba.RaceInformation, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if info != nil {
			attrs = append(attrs, "venue", info.Venue, "race", info.RaceNumber, "title", info.Title)
		}
		p.log("parse information", err, attrs)
	}(time.Now())
	return p.next.ParseInformation(r)
}

// ParseResults delegates to the wrapped parser and logs the operation.
func (p *LoggingRaceParser) ParseResults(r io.Reader) (entrants []*keiba.Entrant, err error) {
	defer func(begin time.Time) {
		p.log("parse results", err, []any{"count", len(entrants), "duration", time.Since(begin)})
	}(time.Now())
	return p.next.ParseResults(r)
}

func (p *LoggingRaceParser) log(msg string, err error, attrs []any) {
	level := slog.LevelDebug
	if err != nil {
		attrs = append(attrs, "code", keiba.ErrorCode(err), "field", keiba.ErrorField(err), "err", err)
		if !keiba.IsSkippable(err) {
			level = slog.LevelWarn
		}
	}
	p.logger.Log(context.Background(), level, msg, attrs...)
}
