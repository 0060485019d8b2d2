package drilldown

import "math"

// Sparkline lays out N points evenly across [Pad, Width-Pad] on the x axis.
type Sparkline struct {
	Points int
	Width  float64
	Pad    float64
}

// X returns the horizontal coordinate of point i.
func (s Sparkline) X(i int) float64 {
	if s.Points <= 1 {
		return s.Width / 2
	}
	step := (s.Width - 2*s.Pad) / float64(s.Points-1)
	return s.Pad + float64(i)*step
}

// HitTest returns the index of the point nearest to x. x is clamped to the
// plotted area, so coordinates outside it snap to the first or last point. It reports false when
// there are no points or the plot has no width.
func (s Sparkline) HitTest(x float64) (int, bool) {
	if s.Points <= 0 || math.IsNaN(x) {
		return 0, false
	}
	inner := s.Width - 2*s.Pad
	if inner <= 0 || math.IsInf(inner, 0) || math.IsNaN(inner) {
		return 0, false
	}
	if s.Points == 1 {
		return 0, true
	}

	x = math.Min(math.Max(x, s.Pad), s.Width-s.Pad)
	step := inner / float64(s.Points-1)
	i := int(math.Round((x - s.Pad) / step))
	return min(i, s.Points-1), true
}
