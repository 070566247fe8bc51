package keiba

// markTable maps display marks to enumeration values. Lookups are exact.
type markTable[T any] map[string]T

func (t markTable[T]) decode(field, mark string) (T, error) {
	v, ok := t[mark]
	if !ok {
		var zero T
		return zero, FieldErrorf(EUNKNOWNMARK, field, "unknown %s mark %q", field, mark)
	}
	return v, nil
}

// Weather represents the weather announced for a race.
type Weather int

// Weather constants.
const (
	WeatherCloud Weather = iota + 1
	WeatherFine
	WeatherRainy
	WeatherLightRain
	WeatherLightSnow
	WeatherSnow
)

var weatherMarks = markTable[Weather]{
	"曇":  WeatherCloud,
	"晴":  WeatherFine,
	"雨":  WeatherRainy,
	"小雨": WeatherLightRain,
	"小雪": WeatherLightSnow,
	"雪":  WeatherSnow,
}

var weatherNames = map[Weather]string{
	WeatherCloud:     "CLOUD",
	WeatherFine:      "FINE",
	WeatherRainy:     "RAINY",
	WeatherLightRain: "LIGHT_RAIN",
	WeatherLightSnow: "LIGHT_SNOW",
	WeatherSnow:      "SNOW",
}

// ParseWeather decodes a weather mark such as "曇".
// Returns EUNKNOWNMARK if the mark is not recognized.
func ParseWeather(mark string) (Weather, error) {
	return weatherMarks.decode(FieldWeather, mark)
}

// Weathers returns all weather values in code order.
func Weathers() []Weather {
	return []Weather{WeatherCloud, WeatherFine, WeatherRainy, WeatherLightRain, WeatherLightSnow, WeatherSnow}
}

func (w Weather) String() string { return enumName(weatherNames, w) }

// Mark returns the display mark of the weather.
func (w Weather) Mark() string { return canonicalMark(weatherMarks, w) }

// TrackDirection represents the turning direction of a course.
type TrackDirection int

// TrackDirection constants.
const (
	TrackDirectionLeft TrackDirection = iota + 1
	TrackDirectionRight
)

var trackDirectionMarks = markTable[TrackDirection]{
	"左": TrackDirectionLeft,
	"右": TrackDirectionRight,
}

var trackDirectionNames = map[TrackDirection]string{
	TrackDirectionLeft:  "LEFT",
	TrackDirectionRight: "RIGHT",
}

// ParseTrackDirection decodes a direction mark ("左" or "右").
func ParseTrackDirection(mark string) (TrackDirection, error) {
	return trackDirectionMarks.decode(FieldTrackDirection, mark)
}

// TrackDirections returns all directions in code order.
func TrackDirections() []TrackDirection {
	return []TrackDirection{TrackDirectionLeft, TrackDirectionRight}
}

func (d TrackDirection) String() string { return enumName(trackDirectionNames, d) }

// Mark returns the display mark of the direction.
func (d TrackDirection) Mark() string { return canonicalMark(trackDirectionMarks, d) }

// TrackKind represents the racing surface material.
type TrackKind int

// TrackKind constants.
const (
	TrackKindGrass TrackKind = iota + 1
	TrackKindDirt
	TrackKindJump
)

// The race descriptor abbreviates dirt and jump to their first character
// while the surface condition is labelled with the full word, so both
// spellings are in the table.
var trackKindMarks = markTable[TrackKind]{
	"芝":   TrackKindGrass,
	"ダ":   TrackKindDirt,
	"ダート": TrackKindDirt,
	"障":   TrackKindJump,
	"障害":  TrackKindJump,
}

var trackKindNames = map[TrackKind]string{
	TrackKindGrass: "GRASS",
	TrackKindDirt:  "DIRT",
	TrackKindJump:  "JUMP",
}

var trackKindLabels = map[TrackKind]string{
	TrackKindGrass: "芝",
	TrackKindDirt:  "ダート",
	TrackKindJump:  "障害",
}

// ParseTrackKind decodes a track kind mark such as "芝" or "ダ".
func ParseTrackKind(mark string) (TrackKind, error) {
	return trackKindMarks.decode(FieldTrackKind, mark)
}

// TrackKinds returns all track kinds in code order.
func TrackKinds() []TrackKind {
	return []TrackKind{TrackKindGrass, TrackKindDirt, TrackKindJump}
}

func (k TrackKind) String() string { return enumName(trackKindNames, k) }

// Mark returns the one-character descriptor mark of the track kind.
func (k TrackKind) Mark() string {
	switch k {
	case TrackKindGrass:
		return "芝"
	case TrackKindDirt:
		return "ダ"
	case TrackKindJump:
		return "障"
	}
	return ""
}

// Label returns the word that labels the surface condition of this track
// kind in the race descriptor, e.g. "ダート" in "ダート : 良".
func (k TrackKind) Label() string { return trackKindLabels[k] }

// TrackSurface represents the going. Dirt conditions share the grass scale.
type TrackSurface int

// TrackSurface constants.
const (
	TrackSurfaceGoodToFirm TrackSurface = iota + 1
	TrackSurfaceGood
	TrackSurfaceYielding
	TrackSurfaceSoft
)

var trackSurfaceMarks = markTable[TrackSurface]{
	"良":  TrackSurfaceGoodToFirm,
	"稍重": TrackSurfaceGood,
	"重":  TrackSurfaceYielding,
	"不良": TrackSurfaceSoft,
}

var trackSurfaceNames = map[TrackSurface]string{
	TrackSurfaceGoodToFirm: "GOOD_TO_FIRM",
	TrackSurfaceGood:       "GOOD",
	TrackSurfaceYielding:   "YIELDING",
	TrackSurfaceSoft:       "SOFT",
}

// ParseTrackSurface decodes a going mark such as "稍重".
func ParseTrackSurface(mark string) (TrackSurface, error) {
	return trackSurfaceMarks.decode(FieldSurface, mark)
}

// TrackSurfaces returns all surface conditions in code order.
func TrackSurfaces() []TrackSurface {
	return []TrackSurface{TrackSurfaceGoodToFirm, TrackSurfaceGood, TrackSurfaceYielding, TrackSurfaceSoft}
}

func (s TrackSurface) String() string { return enumName(trackSurfaceNames, s) }

// Mark returns the display mark of the surface condition.
func (s TrackSurface) Mark() string { return canonicalMark(trackSurfaceMarks, s) }

// Gender represents the sex of a horse.
type Gender int

// Gender constants.
const (
	GenderMale Gender = iota + 1
	GenderFemale
)

var genderMarks = markTable[Gender]{
	"牡": GenderMale,
	"牝": GenderFemale,
}

var genderNames = map[Gender]string{
	GenderMale:   "MALE",
	GenderFemale: "FEMALE",
}

// ParseGender decodes a sex mark ("牡" or "牝").
func ParseGender(mark string) (Gender, error) {
	return genderMarks.decode(FieldGender, mark)
}

// Genders returns all genders in code order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

func (g Gender) String() string { return enumName(genderNames, g) }

// Mark returns the display mark of the gender.
func (g Gender) Mark() string { return canonicalMark(genderMarks, g) }

func enumName[T comparable](names map[T]string, v T) string {
	if name, ok := names[v]; ok {
		return name
	}
	return "UNKNOWN"
}

// canonicalMark returns the shortest mark mapping to v. Ties resolve to the
// lexically smallest mark so the result is stable.
func canonicalMark[T comparable](table markTable[T], v T) string {
	best := ""
	for mark, got := range table {
		if got != v {
			continue
		}
		if best == "" || len(mark) < len(best) || (len(mark) == len(best) && mark < best) {
			best = mark
		}
	}
	return best
}
