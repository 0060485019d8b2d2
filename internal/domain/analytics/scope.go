package analytics

import (
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
)

// Scope is the slice of a snapshot selected by the sector axis, with the
// lookups the views need. Build it once per computation.
type Scope struct {
	Sector       filter.Selection
	Sectors      []model.Sector
	Teams        []model.Team
	Employees    []model.Employee
	Competencies []model.Competency

	allSectors  int
	allTeams    int
	sectorByID  map[int64]model.Sector
	teamByID    map[int64]model.Team
	assignments map[int64][]model.Assignment
}

// NewScope filters snap by sector. With All every team and employee is in
// scope; otherwise only the sector's teams and the employees whose team is
// one of them. Id 0 is never resolvable.
func NewScope(snap *model.Snapshot, sector filter.Selection) *Scope {
	sc := &Scope{
		Sector:       sector,
		Competencies: snap.Competencies,
		allSectors:   len(snap.Sectors),
		allTeams:     len(snap.Teams),
		sectorByID:   make(map[int64]model.Sector, len(snap.Sectors)),
		teamByID:     make(map[int64]model.Team, len(snap.Teams)),
		assignments:  make(map[int64][]model.Assignment),
	}

	for _, s := range snap.Sectors {
		if s.ID == 0 {
			continue
		}
		if _, dup := sc.sectorByID[s.ID]; !dup {
			sc.sectorByID[s.ID] = s
		}
		if sector.IsAll() || s.ID == sector.ID() {
			sc.Sectors = append(sc.Sectors, s)
		}
	}

	for _, t := range snap.Teams {
		if !sector.IsAll() && t.SectorID != sector.ID() {
			continue
		}
		sc.Teams = append(sc.Teams, t)
		if t.ID == 0 {
			continue
		}
		if _, dup := sc.teamByID[t.ID]; !dup {
			sc.teamByID[t.ID] = t
		}
	}

	for _, e := range snap.Employees {
		if !sector.IsAll() {
			if _, ok := sc.teamByID[e.TeamID]; !ok {
				continue
			}
		}
		sc.Employees = append(sc.Employees, e)
	}

	for _, a := range snap.Assignments {
		sc.assignments[a.EmployeeID] = append(sc.assignments[a.EmployeeID], a)
	}
	return sc
}

// Team resolves an in-scope team.
func (sc *Scope) Team(id int64) (model.Team, bool) {
	t, ok := sc.teamByID[id]
	return t, ok
}

// SectorOf resolves a loaded sector regardless of the sector axis.
func (sc *Scope) SectorOf(id int64) (model.Sector, bool) {
	s, ok := sc.sectorByID[id]
	return s, ok
}

// AssignmentsOf returns the employee's assignment records.
func (sc *Scope) AssignmentsOf(employeeID int64) []model.Assignment {
	return sc.assignments[employeeID]
}

// KPIs are the headline counts.
type KPIs struct {
	Employees int `json:"employees"`
	Teams     int `json:"teams"`
	Sectors   int `json:"sectors"`
}

// ComputeKPIs counts scoped employees, in-scope teams and sectors.
func ComputeKPIs(sc *Scope) KPIs {
	k := KPIs{
		Employees: len(sc.Employees),
		Teams:     len(sc.Teams),
		Sectors:   len(sc.Sectors),
	}
	if sc.Sector.IsAll() {
		// Unscoped totals include records with unresolvable ids.
		k.Teams = sc.allTeams
		k.Sectors = sc.allSectors
	} else if k.Sectors > 1 {
		k.Sectors = 1
	}
	return k
}
