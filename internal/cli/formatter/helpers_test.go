package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now, "Today"},
		{now.AddDate(0, 0, 1), "Tomorrow"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{now.AddDate(0, 0, 5), "In 5d"},
		{now.AddDate(0, 0, 21), "In 3w"},
		{now.AddDate(0, 0, 90), "In 3mo"},
		{now.AddDate(0, 0, -5), "5d ago"},
		{now.AddDate(0, 0, -21), "3w ago"},
		{now.AddDate(0, 0, -90), "3mo ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeDateFrom(tt.t, now))
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "8h", FormatHours(8))
	assert.Equal(t, "2.5h", FormatHours(2.5))
	assert.Equal(t, "0h", FormatHours(0))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatDate(&d), "07/03/2025")
	assert.Contains(t, FormatDate(nil), "--")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("abcdef1234567890"), "abcdef12")
	assert.NotContains(t, TruncID("abcdef1234567890"), "abcdef123")
	assert.Contains(t, TruncID("short"), "short")
}

func TestRenderProgress(t *testing.T) {
	out := RenderProgress(50, 10)
	assert.Contains(t, out, " 50%")
	assert.Contains(t, out, "█████░░░░░")

	assert.Contains(t, RenderProgress(-5, 10), "  0%")
	assert.Contains(t, RenderProgress(250, 10), "100%")
}
