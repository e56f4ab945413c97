package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccheck/internal/models"
)

func TestParseFlexible(t *testing.T) {
	want := time.Date(2007, time.May, 6, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2007-05-06",
		"6/5/2007",
		"06/05/2007",
		"06-05-2007",
		"2007/05/06",
		"May 06, 2007",
		"may 6, 2007",
		"06 May 2007",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := ParseFlexible(in)
			require.True(t, ok)
			assert.True(t, SameDay(want, got), "got %s", got.Format(ISO))
		})
	}
}

func TestParseFlexible_MonthFirstWhenDayFirstIsImpossible(t *testing.T) {
	got, ok := ParseFlexible("01/15/2020")
	require.True(t, ok)
	assert.Equal(t, "2020-01-15", got.Format(ISO))
}

func TestParseFlexible_LongMonthNames(t *testing.T) {
	got, ok := ParseFlexible("September 9, 1999")
	require.True(t, ok)
	assert.Equal(t, "1999-09-09", got.Format(ISO))

	got, ok = ParseFlexible("09 September 1999")
	require.True(t, ok)
	assert.Equal(t, "1999-09-09", got.Format(ISO))
}

func TestParseFlexible_Fallbacks(t *testing.T) {
	t.Run("numeric pattern inside noise", func(t *testing.T) {
		got, ok := ParseFlexible("born 6 5 2007 in Tashkent")
		require.True(t, ok)
		assert.Equal(t, "2007-05-06", got.Format(ISO))
	})

	t.Run("written date with spelled out year", func(t *testing.T) {
		got, ok := ParseFlexible(Clean("May 06, 2007 (two thousand and seven)"))
		require.True(t, ok)
		assert.Equal(t, "2007-05-06", got.Format(ISO))
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParseFlexible("not a date")
		assert.False(t, ok)
	})

	t.Run("impossible day", func(t *testing.T) {
		_, ok := ParseFlexible("2020-02-30")
		assert.False(t, ok)
	})
}

func TestParseFlexible_OneDigitFieldsNeedAFallback(t *testing.T) {
	for _, in := range []string{"2020-1-5", "2020/1/5", "5 Jan 2020"} {
		_, ok := ParseFlexible(in)
		assert.False(t, ok, in)
	}

	got, ok := ParseFlexible("5-1-2020")
	require.True(t, ok)
	assert.Equal(t, "2020-01-05", got.Format(ISO))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "May 06, 2007 two thousand and seven", Clean("May 06, 2007 (two thousand and seven)"))
	assert.Equal(t, "15/01/2020", Clean("  15/01/2020. "))
	assert.Equal(t, "2020-01-15", Clean("2020-01-15"))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		d1, d2 string
		status models.ComparisonStatus
		score  int
	}{
		{"same date different formats", "2020-01-15", "15/01/2020", models.StatusExactMatch, 100},
		{"different month", "2020-01-15", "2020-02-15", models.StatusMismatch, 0},
		{"written vs iso", "2007-05-06", "May 06, 2007 (two thousand and seven)", models.StatusExactMatch, 100},
		{"unparseable", "2020-01-15", "sometime", models.StatusInvalidDate, 0},
		{"one-digit iso fields", "2020-1-5", "2020-01-05", models.StatusInvalidDate, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.d1, tt.d2)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.score, got.Score)
		})
	}
}

func TestCompare_Details(t *testing.T) {
	got := Compare("2020-01-15", "2020-02-15")
	assert.Equal(t, "Dates do not match: 2020-01-15 vs 2020-02-15", got.Details)

	got = Compare("2020-01-15", "(unknown)")
	assert.Equal(t, `Cannot parse dates: "2020-01-15" and "unknown"`, got.Details)
}

func TestIsStrictISO(t *testing.T) {
	assert.True(t, IsStrictISO("1990-12-31"))
	assert.False(t, IsStrictISO("1990-1-31"))
	assert.False(t, IsStrictISO("31/12/1990"))
}
