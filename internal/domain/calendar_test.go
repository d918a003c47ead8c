package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	assert.True(t, IsLastDayOfMonth(date(2024, time.February, 29)))
	assert.False(t, IsLastDayOfMonth(date(2024, time.February, 28)))
	assert.True(t, IsLastDayOfMonth(date(2023, time.February, 28)))
	assert.True(t, IsLastDayOfMonth(date(2024, time.April, 30)))
	assert.False(t, IsLastDayOfMonth(date(2024, time.May, 30)))
	assert.True(t, IsLastDayOfMonth(date(2024, time.May, 31)))
	assert.True(t, IsLastDayOfMonth(date(2024, time.December, 31)))
}

func TestIsSunday(t *testing.T) {
	assert.True(t, IsSunday(date(2024, time.January, 7)))
	assert.False(t, IsSunday(date(2024, time.January, 1)))
	assert.False(t, IsSunday(date(2024, time.February, 29)))
	assert.True(t, IsSunday(date(2023, time.December, 31)))
}

func TestAgeInDays(t *testing.T) {
	today := date(2024, time.May, 1)
	assert.Equal(t, 0, AgeInDays(today, today))
	assert.Equal(t, 62, AgeInDays(today, date(2024, time.February, 29)))
	assert.Equal(t, 7, AgeInDays(date(2024, time.January, 8), date(2024, time.January, 1)))
	assert.Equal(t, -1, AgeInDays(today, date(2024, time.May, 2)))
	// crossing a DST change in Europe must still count calendar days
	assert.Equal(t, 1, AgeInDays(date(2024, time.March, 31), date(2024, time.March, 30)))
}

func TestToday(t *testing.T) {
	// 23:30 UTC on the 1st is already the 2nd in Paris
	now := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC)
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	assert.Equal(t, date(2024, time.March, 1), Today(now, time.UTC))
	assert.Equal(t, date(2024, time.March, 1), Today(now, nil))
	assert.Equal(t, date(2024, time.March, 2), Today(now, paris))
}
