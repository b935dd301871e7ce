package geom

import "math"

// Interval is a span on a number line between two endpoints.
// The endpoints are kept as given, P1 may be greater than P2.
type Interval struct {
	P1, P2 float64
}

func NewInterval(p1, p2 float64) Interval {
	return Interval{P1: p1, P2: p2}
}

func (l Interval) Min() float64 {
	return math.Min(l.P1, l.P2)
}

func (l Interval) Max() float64 {
	return math.Max(l.P1, l.P2)
}

func (l Interval) Length() float64 {
	return l.Max() - l.Min()
}

// sorted returns the interval with its endpoints in ascending order
func (l Interval) sorted() Interval {
	if l.P2 < l.P1 {
		return Interval{P1: l.P2, P2: l.P1}
	}
	return l
}

// Overlaps checks if two intervals share a span of positive length.
// Intervals that only share a boundary point do not overlap.
func (l Interval) Overlaps(other Interval) bool {
	a, b := l.sorted(), other.sorted()

	// Order both spans lexicographically: start first, end as tie breaker
	if b.P1 < a.P1 || (b.P1 == a.P1 && b.P2 < a.P2) {
		a, b = b, a
	}

	return a.P2 > b.P2 || a.P2 > b.P1
}
