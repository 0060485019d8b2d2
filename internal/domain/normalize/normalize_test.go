package normalize_test

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/orgpulse/internal/domain/model"
	"github.com/okian/orgpulse/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecords(t *testing.T) {
	Convey("Given collection bodies of different shapes", t, func() {
		Convey("Then a bare array should be split", func() {
			So(len(normalize.Records([]byte(`[{"id":1},{"id":2}]`))), ShouldEqual, 2)
		})

		Convey("Then a wrapped array should be unwrapped", func() {
			So(len(normalize.Records([]byte(`{"data":[{"id":1}]}`))), ShouldEqual, 1)
			So(len(normalize.Records([]byte(`{"content":[{"id":1},{"id":2},{"id":3}]}`))), ShouldEqual, 3)
		})

		Convey("Then anything else should yield no records", func() {
			So(normalize.Records([]byte(`{"message":"oops"}`)), ShouldBeEmpty)
			So(normalize.Records([]byte(`not json`)), ShouldBeEmpty)
			So(normalize.Records(nil), ShouldBeEmpty)
		})
	})
}

func TestSector(t *testing.T) {
	d := normalize.New()

	Convey("Given a sector using canonical fields", t, func() {
		r := d.Sector(gjson.Parse(`{"id":1,"name":"Eng","description":"Builds","active":false,"responsible_id":9}`))

		Convey("Then it should decode without warnings", func() {
			So(r.Defaulted(), ShouldBeFalse)
			So(r.Value, ShouldResemble, model.Sector{ID: 1, Name: "Eng", Description: "Builds", Active: false, ResponsibleID: 9})
		})
	})

	Convey("Given a sector using aliases", t, func() {
		r := d.Sector(gjson.Parse(`{"setor_id":"2","nome":" Vendas ","ativo":"sim","responsavel":{"id":4}}`))

		Convey("Then aliases and nested paths should resolve", func() {
			So(r.Defaulted(), ShouldBeFalse)
			So(r.Value.ID, ShouldEqual, 2)
			So(r.Value.Name, ShouldEqual, "Vendas")
			So(r.Value.Active, ShouldBeTrue)
			So(r.Value.ResponsibleID, ShouldEqual, 4)
		})
	})

	Convey("Given an empty sector", t, func() {
		r := d.Sector(gjson.Parse(`{}`))

		Convey("Then defaults should apply with warnings", func() {
			So(r.Value.ID, ShouldEqual, 0)
			So(r.Value.Name, ShouldEqual, "")
			So(r.Value.Active, ShouldBeTrue)
			So(r.Warnings, ShouldContain, "sector.id: missing, defaulted to 0")
			So(r.Warnings, ShouldContain, "sector.name: missing, defaulted to empty")
		})
	})
}

func TestTeam(t *testing.T) {
	d := normalize.New()

	Convey("Given teams referencing their sector in different ways", t, func() {
		flat := d.Team(gjson.Parse(`{"id":10,"nome":"Core","setorId":1}`))
		nested := d.Team(gjson.Parse(`{"id":11,"name":"Edge","setor":{"id":2,"nome":"X"}}`))
		broken := d.Team(gjson.Parse(`{"id":"abc","name":"Bad","sector_id":null}`))

		Convey("Then flat and nested ids should resolve", func() {
			So(flat.Value.SectorID, ShouldEqual, 1)
			So(nested.Value.SectorID, ShouldEqual, 2)
			So(flat.Value.Active, ShouldBeTrue)
		})

		Convey("Then non-numeric and null ids should degrade to 0", func() {
			So(broken.Value.ID, ShouldEqual, 0)
			So(broken.Value.SectorID, ShouldEqual, 0)
			So(broken.Warnings, ShouldContain, "team.id: not numeric, defaulted to 0")
			So(broken.Warnings, ShouldContain, "team.sector_id: missing, defaulted to 0")
		})
	})
}

func TestEmployee(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	d := normalize.New(normalize.WithLocation(loc))

	Convey("Given an employee with aliased fields", t, func() {
		r := d.Employee(gjson.Parse(`{
			"id": 100, "nome": "Ana", "sobrenome": "Souza", "email": "ana@x.io",
			"time": {"id": 10}, "createdAt": "2026-01-20T12:00:00Z", "cargo": "LIDER"
		}`))

		Convey("Then it should decode into the canonical shape", func() {
			So(r.Defaulted(), ShouldBeFalse)
			So(r.Value.FullName(), ShouldEqual, "Ana Souza")
			So(r.Value.TeamID, ShouldEqual, 10)
			So(r.Value.Role, ShouldEqual, "LIDER")
			So(r.Value.CreatedAt.Equal(time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given creation timestamps in other formats", t, func() {
		dateOnly := d.Employee(gjson.Parse(`{"id":1,"name":"A","team_id":1,"data_admissao":"2025-03-01"}`))
		seconds := d.Employee(gjson.Parse(`{"id":2,"name":"B","team_id":1,"created_at":1700000000}`))
		millis := d.Employee(gjson.Parse(`{"id":3,"name":"C","team_id":1,"created_at":1700000000000}`))
		garbage := d.Employee(gjson.Parse(`{"id":4,"name":"D","team_id":1,"created_at":"yesterday"}`))

		Convey("Then offset-less dates should use the decoder location", func() {
			So(dateOnly.Value.CreatedAt.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, loc)), ShouldBeTrue)
		})

		Convey("Then unix seconds and milliseconds should agree", func() {
			So(seconds.Value.CreatedAt.Equal(millis.Value.CreatedAt), ShouldBeTrue)
			So(seconds.Value.CreatedAt.Unix(), ShouldEqual, int64(1700000000))
		})

		Convey("Then unparseable dates should be left unset with a warning", func() {
			So(garbage.Value.CreatedAt.IsZero(), ShouldBeTrue)
			So(garbage.Warnings, ShouldContain, "employee.created_at: unparseable, left unset")
		})
	})
}

func TestCompetency(t *testing.T) {
	d := normalize.New()

	Convey("Given competencies with assorted category spellings", t, func() {
		cases := map[string]model.Category{
			`{"id":1,"nome":"Go","categoria":"TÉCNICA"}`:            model.CategoryTechnical,
			`{"id":2,"nome":"Escuta","categoria":"Comportamental"}`: model.CategoryBehavioral,
			`{"id":3,"name":"Talk","category":"soft"}`:              model.CategoryBehavioral,
			`{"id":4,"name":"Odd","type":"mystery"}`:                model.CategoryTechnical,
		}

		Convey("Then each should map onto one of the two categories", func() {
			for raw, want := range cases {
				So(d.Competency(gjson.Parse(raw)).Value.Category, ShouldEqual, want)
			}
		})

		Convey("Then unknown categories should warn", func() {
			r := d.Competency(gjson.Parse(`{"id":4,"name":"Odd","type":"mystery"}`))
			So(r.Warnings, ShouldContain, "competency.category: unknown, defaulted to technical")
		})
	})
}

func TestAssignment(t *testing.T) {
	d := normalize.New()
	idx := normalize.NewIndex([]model.Competency{
		{ID: 1, Name: "Comunicação Oral"},
		{ID: 2, Name: "Go"},
		{ID: 3, Name: "go"},
	})

	Convey("Given assignment entries", t, func() {
		Convey("When the entry carries an id and level", func() {
			r := d.Assignment(100, gjson.Parse(`{"competencia":{"id":2},"nivel":"4","ordem":1}`), idx)

			Convey("Then it should decode directly", func() {
				So(r.Defaulted(), ShouldBeFalse)
				So(r.Value, ShouldResemble, model.Assignment{EmployeeID: 100, CompetencyID: 2, Level: 4, Order: 1})
			})
		})

		Convey("When the level is out of range", func() {
			r := d.Assignment(100, gjson.Parse(`{"competency_id":2,"level":7}`), idx)

			Convey("Then it should be kept for the engine to clamp", func() {
				So(r.Value.Level, ShouldEqual, 7)
			})
		})

		Convey("When the entry only carries a name", func() {
			r := d.Assignment(100, gjson.Parse(`{"nome":"comunicacao  oral","nivel":3}`), idx)

			Convey("Then the name should resolve through the index", func() {
				So(r.Value.CompetencyID, ShouldEqual, 1)
				So(r.Value.Level, ShouldEqual, 3)
			})
		})

		Convey("When the entry is a bare name", func() {
			r := d.Assignment(100, gjson.Parse(`"GO"`), idx)

			Convey("Then the first matching id should win and the level default", func() {
				So(r.Value.CompetencyID, ShouldEqual, 2)
				So(r.Value.Level, ShouldEqual, model.MinLevel)
				So(r.Defaulted(), ShouldBeTrue)
			})
		})

		Convey("When the name is unknown", func() {
			r := d.Assignment(100, gjson.Parse(`"Rust"`), idx)

			Convey("Then it should be unresolved", func() {
				So(r.Value.CompetencyID, ShouldEqual, 0)
				So(r.Warnings, ShouldContain, `assignment.competency_id: name "Rust" not found, defaulted to 0`)
			})
		})

		Convey("When there is no index", func() {
			r := d.Assignment(100, gjson.Parse(`"Go"`), nil)
			So(r.Value.CompetencyID, ShouldEqual, 0)
		})
	})
}

func TestFold(t *testing.T) {
	Convey("Given strings differing in case, accents and spacing", t, func() {
		So(normalize.Fold("  Comunicação   Oral "), ShouldEqual, normalize.Fold("comunicacao oral"))
		So(normalize.Fold("TÉCNICA"), ShouldEqual, "tecnica")
		So(normalize.NewIndex(nil).Len(), ShouldEqual, 0)
	})
}
