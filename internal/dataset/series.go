package dataset

import "time"

// Point is one plotted sample.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is the plottable line for one state.
type Series struct {
	State  string  `json:"state"`
	Points []Point `json:"points"`
}

// Empty reports whether the series has no points.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}
