package stopwatch

import "time"

// Lap is a named checkpoint of the engine's elapsed time.
//
// Identity is the ID: it is assigned once when the lap is saved and never
// changes. Name is the only mutable field; CreatedAt and Elapsed are fixed
// at save time.
type Lap struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Elapsed   time.Duration
}

// DisplayName returns the label presentation layers should render. An empty
// name is legal in storage and renders as "Lap".
func (l Lap) DisplayName() string {
	if l.Name == "" {
		return "Lap"
	}
	return l.Name
}
