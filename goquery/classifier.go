package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/keiba"
)

// Selectors for the fixed layout of a db.netkeiba.com race result page.
const (
	ResultTableSelector = `table[summary="レース結果"]`
	TitleSelector       = "dl.racedata > dd > h1"
	DescriptorSelector  = "dl.racedata > dd > p span"
	RaceNumberSelector  = "dl.racedata > dt"
	VenueSelector       = "ul.race_place > li > a.active"
)

// Descriptor marks of race categories the parser rejects.
const (
	jumpMark     = '障'
	straightMark = '直'
)

// Classifier decides whether a race result page can be parsed.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns ENOTFOUND if the document has no results table and
// EINCOMPATIBLE if the race is a jump race or runs on a straight course.
// A nil error means field parsing can proceed.
func (c *Classifier) Classify(doc *goquery.Document) error {
	if doc.Find(ResultTableSelector).Length() == 0 {
		return keiba.Errorf(keiba.ENOTFOUND, "race result table not found")
	}

	descriptor, err := Descriptor(doc)
	if err != nil {
		return err
	}

	marks := []rune(descriptor)
	if marks[0] == jumpMark {
		return keiba.Errorf(keiba.EINCOMPATIBLE, "jump races are not supported: %q", descriptor)
	}
	if len(marks) > 1 && marks[1] == straightMark {
		return keiba.Errorf(keiba.EINCOMPATIBLE, "straight course races are not supported: %q", descriptor)
	}
	return nil
}

// Descriptor returns the race condition line printed under the title,
// e.g. "芝右1800m / 天候 : 曇 / 芝 : 良 / 発走 : 09:50".
func Descriptor(doc *goquery.Document) (string, error) {
	text := strings.TrimSpace(doc.Find(DescriptorSelector).First().Text())
	if text == "" {
		return "", keiba.FieldErrorf(keiba.EUNPARSABLE, keiba.FieldDescriptor, "race descriptor not found")
	}
	return text, nil
}
