package goquery_test

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDescriptor = "芝右1800m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;芝 : 良&nbsp;/&nbsp;発走 : 09:50"

// resultPage renders a UTF-8 race result page with the given descriptor,
// active venue and table rows.
func resultPage(descriptor, venue string, rows ...[]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>race</title></head>
<body>
<ul class="race_place fc"><li><a href="/race/sum/01/" class="active">%s</a></li><li><a href="/race/sum/05/">東京</a></li></ul>
<dl class="racedata fc">
<dt>1 R</dt>
<dd>
<h1>2歳未勝利</h1>
<p><diary_snap_cut><span>%s</span></diary_snap_cut></p>
</dd>
</dl>
<table class="race_table_01" summary="レース結果">
<tr><th>着順</th><th>枠番</th><th>馬番</th><th>馬名</th></tr>
`, venue, descriptor)
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n</body>\n</html>")
	return b.String()
}

// winnerRow returns the cells of a complete, valid results row.
func winnerRow() []string {
	return []string{
		"1", "1", "1",
		`<a href="/horse/2017105318/">ゴルコンダ</a>`,
		"牡2", "54",
		`<a href="/jockey/05339/">ルメール</a>`,
		"1:48.3", "", "**", "1-1-1-1", "36.5",
		"1.4", "1", "518(-16)",
	}
}

func utf8Parser() *goquery.Parser {
	return goquery.NewParser(goquery.WithCharset("utf-8"))
}

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParser_ParseInformation(t *testing.T) {
	t.Parallel()

	t.Run("parses the race information of an EUC-JP page", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewParser()
		info, err := p.ParseInformation(openFixture(t, "201901010101.html"))

		require.NoError(t, err)
		assert.Equal(t, &keiba.RaceInformation{
			Title:          "2歳未勝利",
			Venue:          keiba.VenueSapporo,
			TrackKind:      keiba.TrackKindGrass,
			TrackDirection: keiba.TrackDirectionRight,
			Distance:       1800,
			Surface:        keiba.TrackSurfaceGoodToFirm,
			Weather:        keiba.WeatherCloud,
			RaceNumber:     1,
			StartsAt:       keiba.DefaultStartsAt,
		}, info)
	})

	t.Run("uses the configured start time", func(t *testing.T) {
		t.Parallel()

		startsAt := time.Date(2020, time.June, 1, 10, 0, 0, 0, time.UTC)
		p := goquery.NewParser(goquery.WithCharset("utf-8"), goquery.WithStartsAt(startsAt))
		info, err := p.ParseInformation(strings.NewReader(resultPage(testDescriptor, "札幌", winnerRow())))

		require.NoError(t, err)
		assert.Equal(t, startsAt, info.StartsAt)
	})

	t.Run("parses a dirt race", func(t *testing.T) {
		t.Parallel()

		descriptor := "ダ左1400m&nbsp;/&nbsp;天候 : 小雨&nbsp;/&nbsp;ダート : 稍重&nbsp;/&nbsp;発走 : 12:25"
		info, err := utf8Parser().ParseInformation(strings.NewReader(resultPage(descriptor, "東京", winnerRow())))

		require.NoError(t, err)
		assert.Equal(t, keiba.VenueTokyo, info.Venue)
		assert.Equal(t, keiba.TrackKindDirt, info.TrackKind)
		assert.Equal(t, keiba.TrackDirectionLeft, info.TrackDirection)
		assert.Equal(t, 1400, info.Distance)
		assert.Equal(t, keiba.TrackSurfaceGood, info.Surface)
		assert.Equal(t, keiba.WeatherLightRain, info.Weather)
	})

	t.Run("returns ENOTFOUND for a page without results", func(t *testing.T) {
		t.Parallel()

		info, err := goquery.NewParser().ParseInformation(openFixture(t, "empty_page.html"))

		assert.Nil(t, info)
		assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))
		assert.True(t, keiba.IsSkippable(err))
	})

	t.Run("returns EINCOMPATIBLE for a jump race", func(t *testing.T) {
		t.Parallel()

		descriptor := "障芝 ダート3000m&nbsp;/&nbsp;天候 : 晴&nbsp;/&nbsp;芝 : 良&nbsp;/&nbsp;発走 : 11:00"
		_, err := utf8Parser().ParseInformation(strings.NewReader(resultPage(descriptor, "札幌", winnerRow())))

		assert.Equal(t, keiba.EINCOMPATIBLE, keiba.ErrorCode(err))
	})

	t.Run("returns EINCOMPATIBLE for a straight course", func(t *testing.T) {
		t.Parallel()

		descriptor := "芝直1000m&nbsp;/&nbsp;天候 : 晴&nbsp;/&nbsp;芝 : 良&nbsp;/&nbsp;発走 : 15:45"
		_, err := utf8Parser().ParseInformation(strings.NewReader(resultPage(descriptor, "新潟", winnerRow())))

		assert.Equal(t, keiba.EINCOMPATIBLE, keiba.ErrorCode(err))
	})

	t.Run("field failures name the field", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			descriptor string
			venue      string
			code       string
			field      string
		}{
			{
				name:       "missing distance",
				descriptor: "芝右m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;芝 : 良",
				venue:      "札幌",
				code:       keiba.EUNPARSABLE,
				field:      keiba.FieldDistance,
			},
			{
				name:       "unknown venue",
				descriptor: testDescriptor,
				venue:      "大井",
				code:       keiba.EUNKNOWNMARK,
				field:      keiba.FieldVenue,
			},
			{
				name:       "missing surface label",
				descriptor: "芝右1800m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;発走 : 09:50",
				venue:      "札幌",
				code:       keiba.EUNPARSABLE,
				field:      keiba.FieldSurface,
			},
			{
				name:       "unknown surface mark",
				descriptor: "芝右1800m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;芝 : 極",
				venue:      "札幌",
				code:       keiba.EUNKNOWNMARK,
				field:      keiba.FieldSurface,
			},
			{
				name:       "unknown weather",
				descriptor: "芝右1800m&nbsp;/&nbsp;天候 : 霧&nbsp;/&nbsp;芝 : 良",
				venue:      "札幌",
				code:       keiba.EUNKNOWNMARK,
				field:      keiba.FieldWeather,
			},
			{
				name:       "unknown track kind",
				descriptor: "砂右1800m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;芝 : 良",
				venue:      "札幌",
				code:       keiba.EUNKNOWNMARK,
				field:      keiba.FieldTrackKind,
			},
			{
				name:       "unknown direction",
				descriptor: "芝外1800m&nbsp;/&nbsp;天候 : 曇&nbsp;/&nbsp;芝 : 良",
				venue:      "札幌",
				code:       keiba.EUNKNOWNMARK,
				field:      keiba.FieldTrackDirection,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				info, err := utf8Parser().ParseInformation(strings.NewReader(resultPage(tt.descriptor, tt.venue, winnerRow())))

				assert.Nil(t, info)
				assert.Equal(t, tt.code, keiba.ErrorCode(err))
				assert.Equal(t, tt.field, keiba.ErrorField(err))
				assert.False(t, keiba.IsSkippable(err))
			})
		}
	})
}

func TestParser_ParseResults(t *testing.T) {
	t.Parallel()

	t.Run("parses every entrant of an EUC-JP page", func(t *testing.T) {
		t.Parallel()

		entrants, err := goquery.NewParser().ParseResults(openFixture(t, "201901010101.html"))

		require.NoError(t, err)
		require.Len(t, entrants, 9)

		assert.Equal(t, &keiba.Entrant{
			FinishPosition: 1,
			BracketNumber:  1,
			HorseNumber:    1,
			HorseID:        2017105318,
			HorseName:      "ゴルコンダ",
			HorseAge:       2,
			HorseGender:    keiba.GenderMale,
			Impost:         decimal.RequireFromString("54"),
			JockeyID:       "05339",
			JockeyName:     "ルメール",
			ElapsedTime:    108.3,
			WinOdds:        1.4,
			FavoriteRank:   1,
			BodyWeight:     518,
			WeightChange:   -16,
		}, entrants[0])

		for i, e := range entrants {
			assert.Equal(t, i+1, e.FinishPosition)
		}

		third := entrants[2]
		assert.Equal(t, "ラグリマスネグラス", third.HorseName)
		assert.True(t, decimal.NewFromInt(51).Equal(third.Impost))
		assert.Equal(t, "01180", third.JockeyID)
		assert.Equal(t, 46.6, third.WinOdds)
		assert.Equal(t, 6, third.WeightChange)

		fourth := entrants[3]
		assert.Equal(t, 8, fourth.BracketNumber)
		assert.Equal(t, 9, fourth.HorseNumber)

		fifth := entrants[4]
		assert.Equal(t, 436, fifth.BodyWeight)
		assert.Equal(t, 0, fifth.WeightChange)

		seventh := entrants[6]
		assert.Equal(t, keiba.GenderFemale, seventh.HorseGender)
		assert.Equal(t, "黛弘人", seventh.JockeyName)
		assert.Equal(t, 112.5, seventh.ElapsedTime)
	})

	t.Run("returns ENOTFOUND for a page without results", func(t *testing.T) {
		t.Parallel()

		entrants, err := goquery.NewParser().ParseResults(openFixture(t, "empty_page.html"))

		assert.Nil(t, entrants)
		assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))
	})

	t.Run("returns EINCOMPATIBLE before parsing rows", func(t *testing.T) {
		t.Parallel()

		broken := winnerRow()
		broken[0] = "中"
		descriptor := "障芝3000m&nbsp;/&nbsp;天候 : 晴&nbsp;/&nbsp;芝 : 良"
		_, err := utf8Parser().ParseResults(strings.NewReader(resultPage(descriptor, "札幌", broken)))

		assert.Equal(t, keiba.EINCOMPATIBLE, keiba.ErrorCode(err))
	})

	t.Run("returns no entrants for a table with only headings", func(t *testing.T) {
		t.Parallel()

		entrants, err := utf8Parser().ParseResults(strings.NewReader(resultPage(testDescriptor, "札幌")))

		require.NoError(t, err)
		assert.Empty(t, entrants)
	})

	t.Run("parses fractional impost", func(t *testing.T) {
		t.Parallel()

		row := winnerRow()
		row[5] = "55.5"
		entrants, err := utf8Parser().ParseResults(strings.NewReader(resultPage(testDescriptor, "札幌", row)))

		require.NoError(t, err)
		require.Len(t, entrants, 1)
		assert.Equal(t, "55.5", entrants[0].Impost.String())
	})

	t.Run("parses retired jockey IDs", func(t *testing.T) {
		t.Parallel()

		row := winnerRow()
		row[6] = `<a href="/jockey/z0004/">武邦彦</a>`
		entrants, err := utf8Parser().ParseResults(strings.NewReader(resultPage(testDescriptor, "札幌", row)))

		require.NoError(t, err)
		assert.Equal(t, "z0004", entrants[0].JockeyID)
		assert.Equal(t, "武邦彦", entrants[0].JockeyName)
	})

	t.Run("row failures name the field and the row", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			col   int
			value string
			code  string
			field string
		}{
			{"scratched horse", 0, "取", keiba.EUNPARSABLE, keiba.FieldFinishPosition},
			{"missing bracket", 1, "", keiba.EUNPARSABLE, keiba.FieldBracketNumber},
			{"missing horse link", 3, "ゴルコンダ", keiba.EUNPARSABLE, keiba.FieldHorseID},
			{"gelding", 4, "セ3", keiba.EUNKNOWNMARK, keiba.FieldGender},
			{"missing age", 4, "牡", keiba.EUNPARSABLE, keiba.FieldAge},
			{"missing impost", 5, "", keiba.EUNPARSABLE, keiba.FieldImpost},
			{"missing jockey link", 6, "ルメール", keiba.EUNPARSABLE, keiba.FieldJockeyID},
			{"missing time", 7, "", keiba.EUNPARSABLE, keiba.FieldElapsedTime},
			{"missing odds", 12, "---", keiba.EUNPARSABLE, keiba.FieldWinOdds},
			{"missing favorite rank", 13, "", keiba.EUNPARSABLE, keiba.FieldFavoriteRank},
			{"unweighed horse", 14, "計不", keiba.EUNPARSABLE, keiba.FieldWeight},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				broken := winnerRow()
				broken[tt.col] = tt.value
				entrants, err := utf8Parser().ParseResults(strings.NewReader(resultPage(testDescriptor, "札幌", winnerRow(), broken)))

				assert.Nil(t, entrants)
				assert.Equal(t, tt.code, keiba.ErrorCode(err))
				assert.Equal(t, tt.field, keiba.ErrorField(err))
				assert.Contains(t, keiba.ErrorMessage(err), "row 2")
			})
		}
	})

	t.Run("rejects short rows", func(t *testing.T) {
		t.Parallel()

		_, err := utf8Parser().ParseResults(strings.NewReader(resultPage(testDescriptor, "札幌", winnerRow()[:10])))

		assert.Equal(t, keiba.EUNPARSABLE, keiba.ErrorCode(err))
		assert.Equal(t, keiba.FieldRow, keiba.ErrorField(err))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		p := utf8Parser()
		page := resultPage(testDescriptor, "札幌", winnerRow())
		done := make(chan error, 8)
		for range 8 {
			go func() {
				_, err := p.ParseResults(strings.NewReader(page))
				done <- err
			}()
		}
		for range 8 {
			assert.NoError(t, <-done)
		}
	})
}
