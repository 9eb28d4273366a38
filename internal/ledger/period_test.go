package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-02")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2024, Month: time.February}, p)
	assert.Equal(t, "2024-02", p.String())

	for _, bad := range []string{"", "2024", "2024-13", "2024-00", "24-02", "2024/02", "2024-2", "abcd-01", "2024-+5", "+024-05", "-024-05", "2024- 5", "0000-01"} {
		_, err := ParsePeriod(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPeriodBounds(t *testing.T) {
	start, end := Period{Year: 2024, Month: time.February}.Bounds()
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-31", end)
}

func TestPeriodContainsLeapFebruary(t *testing.T) {
	p := Period{Year: 2024, Month: time.February}
	day := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == time.February {
		assert.True(t, p.Contains(day.Format("2006-01-02")), day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 1)
	}
	assert.False(t, p.Contains("2024-03-01"))
	assert.False(t, p.Contains("2024-01-31"))
}

func TestPeriodNavigation(t *testing.T) {
	jan := Period{Year: 2024, Month: time.January}
	assert.Equal(t, Period{Year: 2023, Month: time.December}, jan.Prev())
	assert.Equal(t, Period{Year: 2024, Month: time.February}, jan.Next())
	assert.Equal(t, Period{Year: 2025, Month: time.January}, Period{Year: 2024, Month: time.December}.Next())
	assert.Equal(t, Period{Year: 2026, Month: time.October}, CurrentPeriod(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)))
}

func TestPeriodNavigationStaysParseable(t *testing.T) {
	first := Period{Year: MinYear, Month: time.January}
	assert.Equal(t, first, first.Prev())
	_, err := ParsePeriod(first.Prev().String())
	assert.NoError(t, err)

	last := Period{Year: MaxYear, Month: time.December}
	assert.Equal(t, last, last.Next())
	_, err = ParsePeriod(last.Next().String())
	assert.NoError(t, err)
}

func TestValidBound(t *testing.T) {
	for _, ok := range []string{"2024-02-01", "2024-02-31", "2024-12-31", "0001-01-01"} {
		assert.True(t, ValidBound(ok), ok)
	}
	for _, bad := range []string{"", "2024-5-1", "2024-05-1", "2024-13-01", "2024-00-10", "2024-05-00", "2024-05-32", "2024/05/01", "2024-+5-01", "2024-05-01T00"} {
		assert.False(t, ValidBound(bad), bad)
	}
}
