package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"hundredths only", 230 * time.Millisecond, "00:00:23"},
		{"minutes seconds hundredths", 65230 * time.Millisecond, "01:05:23"},
		{"rounds up into seconds", 999 * time.Millisecond, "00:01:00"},
		{"rounds up into minutes", 59995 * time.Millisecond, "01:00:00"},
		{"rounds half away from zero", 125 * time.Millisecond, "00:00:13"},
		{"rounds down below midpoint", 124 * time.Millisecond, "00:00:12"},
		{"sub-hundredth noise rounds away", 10*time.Second + 3*time.Millisecond, "00:10:00"},
		{"exact minute", time.Minute, "01:00:00"},
		{"minutes field grows past two digits", 100*time.Minute + 5*time.Second, "100:05:00"},
		{"negative clamps to zero", -time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatElapsed(tt.d))
		})
	}
}

func TestFormatElapsedStable(t *testing.T) {
	// Formatting is pure: the same duration always renders the same string.
	d := 754327 * time.Millisecond
	require.Equal(t, FormatElapsed(d), FormatElapsed(d))
}
