package keiba

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field names reported by EUNPARSABLE and EUNKNOWNMARK errors.
const (
	FieldTitle          = "title"
	FieldDescriptor     = "descriptor"
	FieldDistance       = "distance"
	FieldRaceNumber     = "race_number"
	FieldVenue          = "venue"
	FieldTrackKind      = "track_kind"
	FieldTrackDirection = "track_direction"
	FieldSurface        = "surface"
	FieldWeather        = "weather"

	FieldFinishPosition = "finish_position"
	FieldBracketNumber  = "bracket_number"
	FieldHorseNumber    = "horse_number"
	FieldHorseID        = "horse_id"
	FieldHorseName      = "horse_name"
	FieldGender         = "gender"
	FieldAge            = "age"
	FieldImpost         = "impost"
	FieldJockeyID       = "jockey_id"
	FieldJockeyName     = "jockey_name"
	FieldElapsedTime    = "elapsed_time"
	FieldWinOdds        = "win_odds"
	FieldFavoriteRank   = "favorite_rank"
	FieldWeight         = "weight"
	FieldRow            = "row"
)

var (
	distancePattern    = regexp.MustCompile(`(\d{4})m`)
	digitsPattern      = regexp.MustCompile(`\d+`)
	elapsedTimePattern = regexp.MustCompile(`^(\d):(\d{2})\.(\d)`)
	bodyWeightPattern  = regexp.MustCompile(`(\d{3})\(([+-]?\d{1,2})\)`)
	horseIDPattern     = regexp.MustCompile(`horse/(\d+)`)
	jockeyIDPattern    = regexp.MustCompile(`jockey/([0-9A-Za-z]+)`)
	weatherPattern     = regexp.MustCompile(`天候` + separator + `(\p{L}+)`)
)

var surfacePatterns = func() map[TrackKind]*regexp.Regexp {
	patterns := make(map[TrackKind]*regexp.Regexp, len(trackKindLabels))
	for kind, label := range trackKindLabels {
		patterns[kind] = regexp.MustCompile(regexp.QuoteMeta(label) + separator + `(\p{L}+)`)
	}
	return patterns
}()

// separator matches the " : " between a label and its value. The site pads
// it with regular or non-breaking spaces.
const separator = `[\s\x{00a0}]*:[\s\x{00a0}]*`

// ParseInt parses a cell that holds nothing but an integer.
func ParseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, FieldErrorf(EUNPARSABLE, field, "can't parse %s from %q", field, s)
	}
	return n, nil
}

// ParseLeadingInt returns the first run of digits in s, e.g. 11 for "11 R".
func ParseLeadingInt(field, s string) (int, error) {
	m := digitsPattern.FindString(s)
	if m == "" {
		return 0, FieldErrorf(EUNPARSABLE, field, "can't parse %s from %q", field, s)
	}
	return strconv.Atoi(m)
}

// ParseDistance returns the race distance in meters from the descriptor,
// e.g. 1800 for "芝右1800m / 天候 : 曇".
func ParseDistance(descriptor string) (int, error) {
	m := distancePattern.FindStringSubmatch(descriptor)
	if m == nil {
		return 0, FieldErrorf(EUNPARSABLE, FieldDistance, "can't parse race distance from %q", descriptor)
	}
	return strconv.Atoi(m[1])
}

// LeadingMarks returns the first and second characters of the descriptor,
// which carry the track kind and direction marks.
func LeadingMarks(descriptor string) (kind, direction string, err error) {
	descriptor = strings.TrimSpace(descriptor)
	k, n := utf8.DecodeRuneInString(descriptor)
	if k == utf8.RuneError {
		return "", "", FieldErrorf(EUNPARSABLE, FieldDescriptor, "empty race descriptor")
	}
	d, m := utf8.DecodeRuneInString(descriptor[n:])
	if d == utf8.RuneError && m <= 1 {
		return "", "", FieldErrorf(EUNPARSABLE, FieldDescriptor, "race descriptor too short: %q", descriptor)
	}
	return string(k), string(d), nil
}

// ParseSurfaceMark returns the going mark labelled by the track kind, e.g.
// "良" from "芝 : 良" for grass or "ダート : 良" for dirt.
func ParseSurfaceMark(descriptor string, kind TrackKind) (string, error) {
	re, ok := surfacePatterns[kind]
	if !ok {
		return "", FieldErrorf(EUNPARSABLE, FieldSurface, "no surface label for track kind %s", kind)
	}
	m := re.FindStringSubmatch(descriptor)
	if m == nil {
		return "", FieldErrorf(EUNPARSABLE, FieldSurface, "can't parse track surface from %q", descriptor)
	}
	return m[1], nil
}

// ParseWeatherMark returns the weather mark from "天候 : 曇".
func ParseWeatherMark(descriptor string) (string, error) {
	m := weatherPattern.FindStringSubmatch(descriptor)
	if m == nil {
		return "", FieldErrorf(EUNPARSABLE, FieldWeather, "can't parse weather from %q", descriptor)
	}
	return m[1], nil
}

// ParseElapsedTime converts a "M:SS.T" race time into seconds.
// The value is computed in tenths so "1:48.3" is exactly 108.3.
func ParseElapsedTime(s string) (float64, error) {
	m := elapsedTimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, FieldErrorf(EUNPARSABLE, FieldElapsedTime, "can't parse race time from %q", s)
	}
	minute, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	tenth, _ := strconv.Atoi(m[3])
	return float64(minute*600+second*10+tenth) / 10, nil
}

// ParseBodyWeight splits "518(-16)" into the body weight and its change.
func ParseBodyWeight(s string) (weight, change int, err error) {
	m := bodyWeightPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, FieldErrorf(EUNPARSABLE, FieldWeight, "can't parse horse weight from %q", s)
	}
	weight, _ = strconv.Atoi(m[1])
	change, _ = strconv.Atoi(m[2])
	return weight, change, nil
}

// ParseSexAge splits the combined sex and age cell, e.g. "牡2".
func ParseSexAge(s string) (Gender, int, error) {
	s = strings.TrimSpace(s)
	mark, n := utf8.DecodeRuneInString(s)
	if mark == utf8.RuneError {
		return 0, 0, FieldErrorf(EUNPARSABLE, FieldGender, "empty sex and age cell")
	}
	gender, err := ParseGender(string(mark))
	if err != nil {
		return 0, 0, err
	}
	age, err := ParseInt(FieldAge, s[n:])
	if err != nil {
		return 0, 0, err
	}
	return gender, age, nil
}

// ParseImpost parses the carried weight in kilograms, e.g. "54" or "55.5".
func ParseImpost(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, FieldErrorf(EUNPARSABLE, FieldImpost, "can't parse impost from %q", s)
	}
	return d, nil
}

// ParseOdds parses decimal win odds such as "46.6".
func ParseOdds(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, FieldErrorf(EUNPARSABLE, FieldWinOdds, "can't parse win odds from %q", s)
	}
	return f, nil
}

// ParseHorseID extracts the numeric horse ID from a link such as "/horse/2017105318/".
func ParseHorseID(href string) (int64, error) {
	m := horseIDPattern.FindStringSubmatch(href)
	if m == nil {
		return 0, FieldErrorf(EUNPARSABLE, FieldHorseID, "can't parse horse ID from %q", href)
	}
	return strconv.ParseInt(m[1], 10, 64)
}

// ParseJockeyID extracts the jockey ID from a link such as "/jockey/05339/".
// IDs are usually five zero-padded digits but retired jockeys carry forms
// like "z0004", so the ID is kept as a string.
func ParseJockeyID(href string) (string, error) {
	m := jockeyIDPattern.FindStringSubmatch(href)
	if m == nil {
		return "", FieldErrorf(EUNPARSABLE, FieldJockeyID, "can't parse jockey ID from %q", href)
	}
	return m[1], nil
}
