package analytics

import (
	"time"

	"github.com/okian/orgpulse/internal/domain/filter"
)

// Bucket is one calendar month of the admissions series.
type Bucket struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Start time.Time  `json:"start"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// Series is a fixed-size monthly histogram, oldest bucket first. The last
// bucket is always the anchor's calendar month.
type Series struct {
	Period  filter.Period `json:"period"`
	Buckets []Bucket      `json:"buckets"`
	Total   int           `json:"total"`
}

// MonthDiff counts calendar months from then to now, ignoring days.
func MonthDiff(now, then time.Time) int {
	return (now.Year()-then.Year())*12 + int(now.Month()-then.Month())
}

// Admissions buckets scoped employees by creation month over the last period
// months ending at now. Creation dates are read in now's location. Dates
// beyond either end of the window are clamped into the nearest bucket;
// employees without a creation date are skipped. An unsupported period falls
// back to six months.
func Admissions(sc *Scope, period filter.Period, now time.Time, labels Labeler) Series {
	if !period.Valid() {
		period = filter.Period6
	}
	if labels == nil {
		labels = NewMonthLabeler(DefaultLocale)
	}
	n := int(period)
	loc := now.Location()

	s := Series{Period: period, Buckets: make([]Bucket, n)}
	for i := range s.Buckets {
		start := time.Date(now.Year(), now.Month()-time.Month(n-1-i), 1, 0, 0, 0, 0, loc)
		s.Buckets[i] = Bucket{
			Year:  start.Year(),
			Month: start.Month(),
			Start: start,
			Label: labels.Label(start.Year(), start.Month()),
		}
	}

	for _, e := range sc.Employees {
		if e.CreatedAt.IsZero() {
			continue
		}
		diff := MonthDiff(now, e.CreatedAt.In(loc))
		if diff < 0 {
			diff = 0
		}
		if diff > n-1 {
			diff = n - 1
		}
		s.Buckets[n-1-diff].Count++
		s.Total++
	}
	return s
}
