// Package model defines the canonical organizational entities consumed by the
// analytics engine.
package model

import "time"

// Category tags a competency as technical or behavioral.
type Category string

// Competency categories.
const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
)

// Proficiency bounds for competency assignments.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Sector is a top-level organizational division.
type Sector struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Active        bool   `json:"active"`
	ResponsibleID int64  `json:"responsible_id,omitempty"`
}

// Team is a sub-unit of a sector.
type Team struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SectorID int64  `json:"sector_id"`
	Active   bool   `json:"active"`
}

// Employee is a person with a team membership and a creation date.
type Employee struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	TeamID    int64     `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Competency is a named skill.
type Competency struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Assignment records an employee's proficiency in one competency.
// Order is zero when the assignment is not part of the highlighted subset.
type Assignment struct {
	EmployeeID   int64 `json:"employee_id"`
	CompetencyID int64 `json:"competency_id"`
	Level        int   `json:"level"`
	Order        int   `json:"order,omitempty"`
}

// ClampLevel forces a proficiency level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
