package analytics

import (
	"sort"

	"github.com/okian/orgpulse/internal/domain/dedupe"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
)

// Percent returns round(part/max(whole,1)*100), half away from zero, clamped
// into [0,100]. It works in integers so results are exact.
func Percent(part, whole int) int {
	if part <= 0 {
		return 0
	}
	if whole < 1 {
		whole = 1
	}
	p := (200*part + whole) / (2 * whole)
	if p > 100 {
		return 100
	}
	return p
}

// CoverageRow is one competency's coverage among scoped employees.
type CoverageRow struct {
	CompetencyID int64          `json:"competency_id"`
	Name         string         `json:"name"`
	Category     model.Category `json:"category"`
	Covered      int            `json:"covered"`
	Percentage   int            `json:"percentage"`
}

// Coverage is the top competencies by coverage.
type Coverage struct {
	Rows   []CoverageRow `json:"rows"`
	Scoped int           `json:"scoped"`
	Empty  bool          `json:"empty"`
}

// ComputeCoverage counts, per competency, the assignment records held by
// scoped employees. Under PolicyRecords duplicates count independently, so
// Covered is a record count rather than a head count. Rows are ordered by
// Covered descending (ties keep competency order) and cut to n.
func ComputeCoverage(sc *Scope, policy Policy, n int) Coverage {
	covered := make(map[int64]int)
	seen := policy.deduper()
	for _, e := range sc.Employees {
		for _, a := range sc.AssignmentsOf(e.ID) {
			if seen.SeenAndRecord(dedupe.AssignmentKey(e.ID, a.CompetencyID)) {
				continue
			}
			covered[a.CompetencyID]++
		}
	}

	scoped := len(sc.Employees)
	rows := make([]CoverageRow, 0, len(sc.Competencies))
	total := 0
	for _, c := range sc.Competencies {
		cnt := covered[c.ID]
		total += cnt
		rows = append(rows, CoverageRow{
			CompetencyID: c.ID,
			Name:         c.Name,
			Category:     c.Category,
			Covered:      cnt,
			Percentage:   Percent(cnt, scoped),
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Covered > rows[b].Covered
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return Coverage{Rows: rows, Scoped: scoped, Empty: total == 0}
}

// LevelBucket counts assignments at one proficiency level.
type LevelBucket struct {
	Level      int `json:"level"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// Distribution is the proficiency histogram for the selected competency.
type Distribution struct {
	Selected     bool          `json:"selected"`
	CompetencyID int64         `json:"competency_id"`
	Name         string        `json:"name"`
	Buckets      []LevelBucket `json:"buckets"`
	Total        int           `json:"total"`
	Scoped       int           `json:"scoped"`
	Empty        bool          `json:"empty"`
}

// ComputeDistribution buckets the selected competency's assignments among
// scoped employees by clamped level. With All nothing is computed and the
// view comes back empty and unselected.
func ComputeDistribution(sc *Scope, competency filter.Selection, policy Policy) Distribution {
	if competency.IsAll() {
		return Distribution{Buckets: []LevelBucket{}, Scoped: len(sc.Employees), Empty: true}
	}

	d := Distribution{
		Selected:     true,
		CompetencyID: competency.ID(),
		Buckets:      make([]LevelBucket, model.MaxLevel-model.MinLevel+1),
		Scoped:       len(sc.Employees),
	}
	for _, c := range sc.Competencies {
		if c.ID == competency.ID() {
			d.Name = c.Name
			break
		}
	}

	seen := policy.deduper()
	for _, e := range sc.Employees {
		for _, a := range sc.AssignmentsOf(e.ID) {
			if a.CompetencyID != competency.ID() {
				continue
			}
			if seen.SeenAndRecord(dedupe.AssignmentKey(e.ID, a.CompetencyID)) {
				continue
			}
			d.Buckets[model.ClampLevel(a.Level)-model.MinLevel].Count++
			d.Total++
		}
	}

	for i := range d.Buckets {
		d.Buckets[i].Level = model.MinLevel + i
		d.Buckets[i].Percentage = Percent(d.Buckets[i].Count, d.Scoped)
	}
	d.Empty = d.Total == 0
	return d
}
