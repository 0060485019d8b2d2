package analytics

import "sort"

// SectorRank is one row of the per-sector ranking.
type SectorRank struct {
	SectorID  int64  `json:"sector_id"`
	Name      string `json:"name"`
	Teams     int    `json:"teams"`
	Employees int    `json:"employees"`
}

// TeamRank is one row of the team ranking.
type TeamRank struct {
	TeamID     int64  `json:"team_id"`
	Name       string `json:"name"`
	SectorID   int64  `json:"sector_id"`
	SectorName string `json:"sector_name"`
	Employees  int    `json:"employees"`
}

// RankSectors groups in-scope teams by sector and orders the groups by
// scoped employee count, descending. Ties keep the order in which the sector
// was first seen among the teams. Teams whose sector is not loaded are left
// out.
func RankSectors(sc *Scope) []SectorRank {
	rows := []SectorRank{}
	pos := make(map[int64]int)

	for _, t := range sc.Teams {
		s, ok := sc.SectorOf(t.SectorID)
		if !ok {
			continue
		}
		i, seen := pos[s.ID]
		if !seen {
			i = len(rows)
			pos[s.ID] = i
			rows = append(rows, SectorRank{SectorID: s.ID, Name: s.Name})
		}
		rows[i].Teams++
	}

	for _, e := range sc.Employees {
		t, ok := sc.Team(e.TeamID)
		if !ok {
			continue
		}
		if i, ok := pos[t.SectorID]; ok {
			rows[i].Employees++
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Employees > rows[b].Employees
	})
	return rows
}

// TopTeams orders in-scope teams by scoped employee count, descending, and
// keeps the first n. Ties keep input order.
func TopTeams(sc *Scope, n int) []TeamRank {
	counts := make(map[int64]int, len(sc.Teams))
	for _, e := range sc.Employees {
		if _, ok := sc.Team(e.TeamID); ok {
			counts[e.TeamID]++
		}
	}

	rows := make([]TeamRank, 0, len(sc.Teams))
	listed := make(map[int64]bool, len(sc.Teams))
	for _, t := range sc.Teams {
		if t.ID == 0 || listed[t.ID] {
			continue
		}
		listed[t.ID] = true
		row := TeamRank{
			TeamID:    t.ID,
			Name:      t.Name,
			SectorID:  t.SectorID,
			Employees: counts[t.ID],
		}
		if s, ok := sc.SectorOf(t.SectorID); ok {
			row.SectorName = s.Name
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Employees > rows[b].Employees
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
