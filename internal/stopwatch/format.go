package stopwatch

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as the fixed-width stopwatch display
// "MM:SS:CC" (minutes, seconds, hundredths). The duration is rounded to the
// nearest hundredth of a second before decomposition, so 999ms renders as
// "00:01:00" rather than overflowing the hundredths field. The minutes field
// grows past two digits for very long sessions instead of wrapping.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(10 * time.Millisecond)
	minutes := int64(d / time.Minute)
	seconds := int64((d % time.Minute) / time.Second)
	hundredths := int64((d % time.Second) / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, hundredths)
}
