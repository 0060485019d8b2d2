package model

import "time"

// Meta describes the load batch that produced a snapshot.
type Meta struct {
	BatchID    string    `json:"batch_id"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
	Duration   string    `json:"duration"`

	Warnings            int      `json:"warnings"`
	FailedCollections   []string `json:"failed_collections"`
	FailedAssignmentIDs []int64  `json:"failed_assignment_ids"`
}

// Snapshot is one full reload of the source collections. It is never mutated
// after publication; a refresh replaces it wholesale.
type Snapshot struct {
	Meta Meta `json:"meta"`

	Sectors      []Sector     `json:"sectors"`
	Teams        []Team       `json:"teams"`
	Employees    []Employee   `json:"employees"`
	Competencies []Competency `json:"competencies"`
	Assignments  []Assignment `json:"assignments"`
}

// Empty returns a snapshot with no entities. Engines treat it like any other
// snapshot and produce empty views.
func Empty() *Snapshot {
	return &Snapshot{
		Sectors:      []Sector{},
		Teams:        []Team{},
		Employees:    []Employee{},
		Competencies: []Competency{},
		Assignments:  []Assignment{},
	}
}
