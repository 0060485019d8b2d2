// Package normalize decodes loosely-typed source records into canonical
// entities. Decoding never fails: malformed fields degrade to defaults and
// are reported as warnings on the returned Result.
package normalize

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/orgpulse/internal/domain/model"
)

// wrapperKeys are the object keys a collection body may nest its array under.
var wrapperKeys = []string{"data", "items", "results", "content"} //nolint:gochecknoglobals // read-only lookup table

// Result carries a canonical entity and the warnings raised while decoding it.
type Result[T any] struct {
	Value    T
	Warnings []string
}

// Defaulted reports whether any field had to fall back to a default.
func (r Result[T]) Defaulted() bool { return len(r.Warnings) > 0 }

// Option applies a configuration option to the Decoder.
type Option func(*Decoder)

// WithLocation sets the location used for timestamps that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(d *Decoder) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// Decoder turns raw records into canonical entities.
type Decoder struct {
	loc *time.Location
}

// New creates a Decoder. Offset-less timestamps default to UTC.
func New(opts ...Option) *Decoder {
	d := &Decoder{loc: time.UTC}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Records splits a collection body into its records. The body may be a bare
// array or an object wrapping one; anything else yields no records.
func Records(body []byte) []gjson.Result {
	if !gjson.ValidBytes(body) {
		return []gjson.Result{}
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	if root.IsObject() {
		for _, key := range wrapperKeys {
			if v := root.Get(key); v.IsArray() {
				return v.Array()
			}
		}
	}
	return []gjson.Result{}
}

// Sector decodes a sector record.
func (d *Decoder) Sector(raw gjson.Result) Result[model.Sector] {
	w := &warnings{entity: "sector"}
	return Result[model.Sector]{
		Value: model.Sector{
			ID:            w.id(raw, sectorID),
			Name:          w.str(raw, sectorName, true),
			Description:   w.str(raw, sectorDescription, false),
			Active:        w.boolean(raw, sectorActive),
			ResponsibleID: w.optionalID(raw, sectorResponsible),
		},
		Warnings: w.list,
	}
}

// Team decodes a team record.
func (d *Decoder) Team(raw gjson.Result) Result[model.Team] {
	w := &warnings{entity: "team"}
	return Result[model.Team]{
		Value: model.Team{
			ID:       w.id(raw, teamID),
			Name:     w.str(raw, teamName, true),
			SectorID: w.id(raw, teamSector),
			Active:   w.boolean(raw, teamActive),
		},
		Warnings: w.list,
	}
}

// Employee decodes an employee record.
func (d *Decoder) Employee(raw gjson.Result) Result[model.Employee] {
	w := &warnings{entity: "employee"}
	return Result[model.Employee]{
		Value: model.Employee{
			ID:        w.id(raw, employeeID),
			FirstName: w.str(raw, employeeFirstName, true),
			LastName:  w.str(raw, employeeLastName, false),
			Email:     w.str(raw, employeeEmail, false),
			TeamID:    w.id(raw, employeeTeam),
			CreatedAt: w.timestamp(raw, employeeCreated, d.loc),
			Role:      w.str(raw, employeeRole, false),
		},
		Warnings: w.list,
	}
}

// Competency decodes a competency record.
func (d *Decoder) Competency(raw gjson.Result) Result[model.Competency] {
	w := &warnings{entity: "competency"}
	return Result[model.Competency]{
		Value: model.Competency{
			ID:       w.id(raw, competencyID),
			Name:     w.str(raw, competencyName, true),
			Category: w.category(raw, competencyCategory),
		},
		Warnings: w.list,
	}
}

// Assignment decodes one entry of an employee's assignment list. Entries
// without a competency id, including bare name strings, are resolved by name
// through idx.
func (d *Decoder) Assignment(employee int64, raw gjson.Result, idx *Index) Result[model.Assignment] {
	w := &warnings{entity: "assignment"}
	a := model.Assignment{EmployeeID: employee}

	if raw.Type == gjson.String {
		a.CompetencyID = w.byName(raw.String(), idx)
		a.Level = model.MinLevel
		w.add("level", "missing, defaulted to minimum")
		return Result[model.Assignment]{Value: a, Warnings: w.list}
	}

	if v, ok := lookup(raw, assignmentCompetency); ok {
		a.CompetencyID = w.coerceID("competency_id", v)
	} else {
		name, _ := lookup(raw, assignmentName)
		a.CompetencyID = w.byName(name.String(), idx)
	}

	if v, ok := lookup(raw, assignmentLevel); ok {
		a.Level = int(w.coerceID("level", v))
	} else {
		a.Level = model.MinLevel
		w.add("level", "missing, defaulted to minimum")
	}
	a.Order = int(w.optionalID(raw, assignmentOrder))

	return Result[model.Assignment]{Value: a, Warnings: w.list}
}
