package datex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	d, err := Parse("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.February, Day: 1}, d)
	assert.Equal(t, "2025-02-01", d.String())
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "not-a-date", "2023-02-30", "2023-13-01", "01/02/2023", "2023-2-1"}
	for _, s := range cases {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestDateOf_UsesLocationCalendar(t *testing.T) {
	// 23:30 on Jan 31 in a UTC+13 zone is already Feb 1 in UTC terms,
	// but the calendar date must be the local one.
	loc := time.FixedZone("UTC+13", 13*3600)
	d := DateOf(time.Date(2025, time.January, 31, 23, 30, 0, 0, loc))
	assert.Equal(t, MustParse("2025-01-31"), d)

	// Likewise 00:30 local on Feb 1 stays Feb 1 even though UTC says Jan 31.
	loc = time.FixedZone("UTC-11", -11*3600)
	d = DateOf(time.Date(2025, time.February, 1, 0, 30, 0, 0, loc))
	assert.Equal(t, MustParse("2025-02-01"), d)
}

func TestAddDays_CalendarCarries(t *testing.T) {
	cases := []struct {
		start string
		days  int
		want  string
	}{
		{"2025-01-01", -1, "2024-12-31"}, // year boundary
		{"2025-03-01", -1, "2025-02-28"}, // non-leap February
		{"2024-03-01", -1, "2024-02-29"}, // leap February
		{"2024-02-29", 1, "2024-03-01"},
		{"2024-02-29", 365, "2025-02-28"},
		{"2025-01-31", 1, "2025-02-01"},
		{"2025-02-01", -6, "2025-01-26"},
		{"2025-06-15", 0, "2025-06-15"},
	}
	for _, tc := range cases {
		got := MustParse(tc.start).AddDays(tc.days)
		assert.Equal(t, MustParse(tc.want), got, "%s %+d days", tc.start, tc.days)
	}
}

func TestCompare_Ordering(t *testing.T) {
	a := MustParse("2024-12-31")
	b := MustParse("2025-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, MustParse("2025-01-01").IsZero())
}
