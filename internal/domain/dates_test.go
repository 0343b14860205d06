package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want *time.Time
	}{
		{"", nil},
		{"garbage", nil},
		{"2024-01-05", date(2024, time.January, 5)},
		{"2024-01-05T13:45:00Z", date(2024, time.January, 5)},
		{"05/01/2024", date(2024, time.January, 5)},
		{"31/02/2024", nil},
		{"5/1", nil},
	}
	for _, tc := range cases {
		got := ParseDate(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "in=%q", tc.in)
			continue
		}
		require.NotNil(t, got, "in=%q", tc.in)
		assert.Equal(t, *tc.want, *got, "in=%q", tc.in)
	}
}

func TestDurationDays(t *testing.T) {
	cases := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  *int
	}{
		{"same day", date(2024, time.January, 1), date(2024, time.January, 1), intPtr(1)},
		{"five days", date(2024, time.January, 1), date(2024, time.January, 5), intPtr(5)},
		{"reversed", date(2024, time.January, 5), date(2024, time.January, 1), intPtr(0)},
		{"missing start", nil, date(2024, time.January, 1), nil},
		{"missing end", date(2024, time.January, 1), nil, nil},
		{"both missing", nil, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DurationDays(tc.start, tc.end)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestDiffDaysInclusive_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DiffDaysInclusive(start, end))
}

func intPtr(v int) *int { return &v }
