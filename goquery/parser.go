// Package goquery parses db.netkeiba.com race result pages with goquery.
package goquery

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/keiba"
	"golang.org/x/net/html/charset"
)

// DefaultCharset is the encoding the race database serves its pages in.
const DefaultCharset = "euc-jp"

// Result table columns.
const (
	colFinishPosition = 0
	colBracketNumber  = 1
	colHorseNumber    = 2
	colHorse          = 3
	colSexAge         = 4
	colImpost         = 5
	colJockey         = 6
	colTime           = 7
	colWinOdds        = 12
	colFavoriteRank   = 13
	colBodyWeight     = 14

	minColumns = colBodyWeight + 1
)

// Ensure Parser implements keiba.RaceParser at compile time.
var _ keiba.RaceParser = (*Parser)(nil)

// Parser parses race result pages. It holds no mutable state and is safe
// for concurrent use.
type Parser struct {
	classifier *Classifier
	charset    string
	startsAt   time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithCharset sets the encoding label of the input, e.g. "utf-8".
// Defaults to DefaultCharset.
func WithCharset(label string) Option {
	return func(p *Parser) {
		p.charset = label
	}
}

// WithStartsAt sets the scheduled start reported for every race.
// Defaults to keiba.DefaultStartsAt.
func WithStartsAt(t time.Time) Option {
	return func(p *Parser) {
		p.startsAt = t
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		classifier: NewClassifier(),
		charset:    DefaultCharset,
		startsAt:   keiba.DefaultStartsAt,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseInformation parses the race-level metadata of a result page.
func (p *Parser) ParseInformation(r io.Reader) (*keiba.RaceInformation, error) {
	doc, err := p.load(r)
	if err != nil {
		return nil, err
	}
	if err := p.classifier.Classify(doc); err != nil {
		return nil, err
	}
	return p.information(doc)
}

// ParseResults parses every row of the results table in display order.
func (p *Parser) ParseResults(r io.Reader) ([]*keiba.Entrant, error) {
	doc, err := p.load(r)
	if err != nil {
		return nil, err
	}
	if err := p.classifier.Classify(doc); err != nil {
		return nil, err
	}
	return p.results(doc)
}

// load decodes the input from the configured charset and parses the tree.
func (p *Parser) load(r io.Reader) (*goquery.Document, error) {
	decoded, err := charset.NewReaderLabel(p.charset, r)
	if err != nil {
		return nil, keiba.Errorf(keiba.EINVALID, "unsupported charset %q: %v", p.charset, err)
	}
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, keiba.Errorf(keiba.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

func (p *Parser) information(doc *goquery.Document) (*keiba.RaceInformation, error) {
	descriptor, err := Descriptor(doc)
	if err != nil {
		return nil, err
	}

	distance, err := keiba.ParseDistance(descriptor)
	if err != nil {
		return nil, err
	}

	raceNumber, err := keiba.ParseLeadingInt(keiba.FieldRaceNumber, doc.Find(RaceNumberSelector).First().Text())
	if err != nil {
		return nil, err
	}

	venue, err := keiba.ParseVenue(strings.TrimSpace(doc.Find(VenueSelector).First().Text()))
	if err != nil {
		return nil, err
	}

	kindMark, directionMark, err := keiba.LeadingMarks(descriptor)
	if err != nil {
		return nil, err
	}
	kind, err := keiba.ParseTrackKind(kindMark)
	if err != nil {
		return nil, err
	}
	direction, err := keiba.ParseTrackDirection(directionMark)
	if err != nil {
		return nil, err
	}

	surfaceMark, err := keiba.ParseSurfaceMark(descriptor, kind)
	if err != nil {
		return nil, err
	}
	surface, err := keiba.ParseTrackSurface(surfaceMark)
	if err != nil {
		return nil, err
	}

	weatherMark, err := keiba.ParseWeatherMark(descriptor)
	if err != nil {
		return nil, err
	}
	weather, err := keiba.ParseWeather(weatherMark)
	if err != nil {
		return nil, err
	}

	return &keiba.RaceInformation{
		Title:          doc.Find(TitleSelector).First().Text(),
		Venue:          venue,
		TrackKind:      kind,
		TrackDirection: direction,
		Distance:       distance,
		Surface:        surface,
		Weather:        weather,
		RaceNumber:     raceNumber,
		StartsAt:       p.startsAt,
	}, nil
}

func (p *Parser) results(doc *goquery.Document) ([]*keiba.Entrant, error) {
	rows := doc.Find(ResultTableSelector).First().Find("tr")

	// The first row holds the column headings.
	if rows.Length() <= 1 {
		return []*keiba.Entrant{}, nil
	}
	entrants := make([]*keiba.Entrant, 0, rows.Length()-1)
	var err error
	rows.Slice(1, rows.Length()).EachWithBreak(func(i int, row *goquery.Selection) bool {
		var e *keiba.Entrant
		if e, err = entrant(row.Find("td")); err != nil {
			err = rowError(i+1, err)
			return false
		}
		entrants = append(entrants, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entrants, nil
}

func entrant(cells *goquery.Selection) (*keiba.Entrant, error) {
	if cells.Length() < minColumns {
		return nil, keiba.FieldErrorf(keiba.EUNPARSABLE, keiba.FieldRow, "expected at least %d cells, got %d", minColumns, cells.Length())
	}
	text := func(col int) string {
		return cells.Eq(col).Text()
	}

	var e keiba.Entrant
	var err error

	if e.FinishPosition, err = keiba.ParseInt(keiba.FieldFinishPosition, text(colFinishPosition)); err != nil {
		return nil, err
	}
	if e.BracketNumber, err = keiba.ParseInt(keiba.FieldBracketNumber, text(colBracketNumber)); err != nil {
		return nil, err
	}
	if e.HorseNumber, err = keiba.ParseInt(keiba.FieldHorseNumber, text(colHorseNumber)); err != nil {
		return nil, err
	}

	horse := cells.Eq(colHorse)
	if e.HorseID, err = keiba.ParseHorseID(horse.Find("a").AttrOr("href", "")); err != nil {
		return nil, err
	}
	e.HorseName = strings.TrimSpace(horse.Text())

	if e.HorseGender, e.HorseAge, err = keiba.ParseSexAge(text(colSexAge)); err != nil {
		return nil, err
	}
	if e.Impost, err = keiba.ParseImpost(text(colImpost)); err != nil {
		return nil, err
	}

	jockey := cells.Eq(colJockey)
	if e.JockeyID, err = keiba.ParseJockeyID(jockey.Find("a").AttrOr("href", "")); err != nil {
		return nil, err
	}
	e.JockeyName = strings.TrimSpace(jockey.Text())

	if e.ElapsedTime, err = keiba.ParseElapsedTime(text(colTime)); err != nil {
		return nil, err
	}
	if e.WinOdds, err = keiba.ParseOdds(text(colWinOdds)); err != nil {
		return nil, err
	}
	if e.FavoriteRank, err = keiba.ParseInt(keiba.FieldFavoriteRank, text(colFavoriteRank)); err != nil {
		return nil, err
	}
	if e.BodyWeight, e.WeightChange, err = keiba.ParseBodyWeight(text(colBodyWeight)); err != nil {
		return nil, err
	}

	return &e, nil
}

// rowError prefixes the message of an application error with the row
// number, keeping its code and field.
func rowError(row int, err error) error {
	var e *keiba.Error
	if !errors.As(err, &e) {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return &keiba.Error{
		Code:    e.Code,
		Field:   e.Field,
		Message: fmt.Sprintf("row %d: %s", row, e.Message),
	}
}
