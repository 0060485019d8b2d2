package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/okian/orgpulse/internal/domain/analytics"
	"github.com/okian/orgpulse/internal/domain/filter"
	"github.com/okian/orgpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var june = time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

func engSales() *model.Snapshot {
	return &model.Snapshot{
		Meta: model.Meta{Generation: 1},
		Sectors: []model.Sector{
			{ID: 1, Name: "Eng", Active: true},
			{ID: 2, Name: "Sales", Active: true},
		},
		Teams: []model.Team{
			{ID: 10, Name: "Platform", SectorID: 1, Active: true},
			{ID: 20, Name: "Inbound", SectorID: 2, Active: true},
		},
		Employees: []model.Employee{
			{ID: 100, TeamID: 10, CreatedAt: june},
			{ID: 101, TeamID: 10, CreatedAt: june.AddDate(0, -1, 0)},
			{ID: 102, TeamID: 20, CreatedAt: june.AddDate(0, -2, 0)},
		},
		Competencies: []model.Competency{
			{ID: 1, Name: "Go", Category: model.CategoryTechnical},
			{ID: 2, Name: "Comunicação", Category: model.CategoryBehavioral},
		},
	}
}

func TestEngSalesScenario(t *testing.T) {
	Convey("Given two sectors, two teams and three employees", t, func() {
		snap := engSales()
		engine := analytics.NewEngine()

		Convey("When computing the unfiltered dashboard", func() {
			d := engine.Compute(snap, filter.Initial(), june)

			Convey("Then the KPIs should count everything", func() {
				So(d.KPIs, ShouldResemble, analytics.KPIs{Employees: 3, Teams: 2, Sectors: 2})
			})

			Convey("And the sector ranking should order by employees", func() {
				So(len(d.Sectors), ShouldEqual, 2)
				So(d.Sectors[0].Name, ShouldEqual, "Eng")
				So(d.Sectors[0].Employees, ShouldEqual, 2)
				So(d.Sectors[0].Teams, ShouldEqual, 1)
				So(d.Sectors[1].Name, ShouldEqual, "Sales")
				So(d.Sectors[1].Employees, ShouldEqual, 1)
			})

			Convey("And the generation should be carried through", func() {
				So(d.Generation, ShouldEqual, 1)
			})
		})

		Convey("When scoping to each sector", func() {
			for _, tc := range []struct {
				sector filter.Selection
				want   int
			}{{filter.All, 3}, {1, 2}, {2, 1}, {3, 0}} {
				sc := analytics.NewScope(snap, tc.sector)

				Convey("Then sector "+tc.sector.String()+" should scope its employees", func() {
					So(len(sc.Employees), ShouldEqual, tc.want)
				})
			}
		})

		Convey("When selecting sector 1 and then all again", func() {
			initial := engine.Compute(snap, filter.Initial(), june)
			st := filter.Reduce(filter.Initial(), filter.SetSector{Sector: 1})
			scoped := engine.Compute(snap, st, june)
			st = filter.Reduce(st, filter.SetSector{Sector: filter.All})
			restored := engine.Compute(snap, st, june)

			Convey("Then the scoped counts should shrink", func() {
				So(scoped.KPIs, ShouldResemble, analytics.KPIs{Employees: 2, Teams: 1, Sectors: 1})
			})

			Convey("And resetting should restore the initial counts", func() {
				So(restored.KPIs, ShouldResemble, initial.KPIs)
				So(restored.Sectors, ShouldResemble, initial.Sectors)
			})
		})
	})
}

func TestRankingProperties(t *testing.T) {
	Convey("Given teams with dangling and tied references", t, func() {
		snap := &model.Snapshot{
			Sectors: []model.Sector{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}},
			Teams: []model.Team{
				{ID: 10, Name: "t10", SectorID: 2},
				{ID: 11, Name: "t11", SectorID: 1},
				{ID: 12, Name: "t12", SectorID: 99},
				{ID: 13, Name: "t13", SectorID: 3},
			},
			Employees: []model.Employee{
				{ID: 1, TeamID: 10},
				{ID: 2, TeamID: 11},
				{ID: 3, TeamID: 12},
				{ID: 4, TeamID: 999},
			},
		}
		sc := analytics.NewScope(snap, filter.All)

		Convey("When ranking sectors", func() {
			rows := analytics.RankSectors(sc)

			Convey("Then sectors without a loaded id should be excluded", func() {
				So(len(rows), ShouldEqual, 3)
			})

			Convey("And ties should keep first-seen order", func() {
				So(rows[0].SectorID, ShouldEqual, 2)
				So(rows[1].SectorID, ShouldEqual, 1)
				So(rows[2].SectorID, ShouldEqual, 3)
				So(rows[2].Employees, ShouldEqual, 0)
			})

			Convey("And unplaceable employees should not be summed", func() {
				sum := 0
				for _, r := range rows {
					sum += r.Employees
				}
				So(sum, ShouldEqual, 2)
			})
		})

		Convey("When counting KPIs", func() {
			k := analytics.ComputeKPIs(sc)

			Convey("Then dangling employees should still count in the unscoped total", func() {
				So(k.Employees, ShouldEqual, 4)
				So(k.Teams, ShouldEqual, 4)
			})
		})

		Convey("When ranking teams", func() {
			rows := analytics.TopTeams(sc, 5)

			Convey("Then teams with unknown sectors should still be ranked", func() {
				So(len(rows), ShouldEqual, 4)
				So(rows[0].TeamID, ShouldEqual, 10)
				So(rows[0].SectorName, ShouldEqual, "B")
				So(rows[2].TeamID, ShouldEqual, 12)
				So(rows[2].SectorName, ShouldEqual, "")
				So(rows[3].TeamID, ShouldEqual, 13)
			})
		})
	})

	Convey("Given more than five teams", t, func() {
		snap := &model.Snapshot{Sectors: []model.Sector{{ID: 1, Name: "A"}}}
		for i := int64(1); i <= 7; i++ {
			snap.Teams = append(snap.Teams, model.Team{ID: i, SectorID: 1})
			for j := int64(0); j < i%3; j++ {
				snap.Employees = append(snap.Employees, model.Employee{ID: i*100 + j, TeamID: i})
			}
		}

		Convey("When taking the top teams", func() {
			rows := analytics.TopTeams(analytics.NewScope(snap, filter.All), analytics.DefaultTopTeams)

			Convey("Then only five should remain, in stable order", func() {
				So(len(rows), ShouldEqual, 5)
				ids := []int64{}
				for _, r := range rows {
					ids = append(ids, r.TeamID)
				}
				So(ids, ShouldResemble, []int64{2, 5, 1, 4, 7})
			})
		})
	})
}

func TestAdmissions(t *testing.T) {
	Convey("Given an anchor in June", t, func() {
		for _, p := range []filter.Period{filter.Period6, filter.Period12, filter.Period36} {
			Convey(fmt.Sprintf("When building a %d-month series", p), func() {
				s := analytics.Admissions(analytics.NewScope(engSales(), filter.All), p, june, nil)

				Convey("Then it should have one bucket per month ending now", func() {
					So(len(s.Buckets), ShouldEqual, int(p))
					last := s.Buckets[len(s.Buckets)-1]
					So(last.Year, ShouldEqual, 2026)
					So(last.Month, ShouldEqual, time.June)
					So(s.Buckets[0].Start.Before(last.Start), ShouldBeTrue)
				})
			})
		}

		Convey("When an employee was created in January", func() {
			snap := &model.Snapshot{Employees: []model.Employee{
				{ID: 1, CreatedAt: time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)},
			}}
			s := analytics.Admissions(analytics.NewScope(snap, filter.All), filter.Period6, june, nil)

			Convey("Then it should fall into the oldest bucket", func() {
				So(s.Buckets[0].Month, ShouldEqual, time.January)
				So(s.Buckets[0].Count, ShouldEqual, 1)
				So(s.Total, ShouldEqual, 1)
			})
		})

		Convey("When employees fall outside the window", func() {
			snap := &model.Snapshot{Employees: []model.Employee{
				{ID: 1, CreatedAt: time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC)},
				{ID: 2, CreatedAt: time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)},
				{ID: 3},
			}}
			s := analytics.Admissions(analytics.NewScope(snap, filter.All), filter.Period6, june, nil)

			Convey("Then they should be clamped to the ends and unset dates skipped", func() {
				So(s.Buckets[0].Count, ShouldEqual, 1)
				So(s.Buckets[5].Count, ShouldEqual, 1)
				So(s.Total, ShouldEqual, 2)
			})
		})

		Convey("When an employee was created exactly on a month boundary", func() {
			for n := 0; n < 6; n++ {
				created := time.Date(2026, time.June-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
				snap := &model.Snapshot{Employees: []model.Employee{{ID: 1, CreatedAt: created}}}
				s := analytics.Admissions(analytics.NewScope(snap, filter.All), filter.Period6, june, nil)

				hits := 0
				for _, b := range s.Buckets {
					hits += b.Count
				}
				So(hits, ShouldEqual, 1)
				So(s.Buckets[5-n].Count, ShouldEqual, 1)
			}
		})

		Convey("When the creation date is in another zone", func() {
			loc := time.FixedZone("BRT", -3*60*60)
			now := time.Date(2026, time.June, 15, 0, 0, 0, 0, loc)
			created := time.Date(2026, time.May, 1, 1, 0, 0, 0, time.UTC) // April 30th in BRT
			snap := &model.Snapshot{Employees: []model.Employee{{ID: 1, CreatedAt: created}}}
			s := analytics.Admissions(analytics.NewScope(snap, filter.All), filter.Period6, now, nil)

			Convey("Then the anchor's location should decide the month", func() {
				So(s.Buckets[3].Month, ShouldEqual, time.April)
				So(s.Buckets[3].Count, ShouldEqual, 1)
			})
		})

		Convey("When labeling buckets", func() {
			s := analytics.Admissions(analytics.NewScope(engSales(), filter.All), filter.Period6, june,
				analytics.NewMonthLabeler("en"))

			Convey("Then the labels should follow the locale", func() {
				So(s.Buckets[5].Label, ShouldEqual, "Jun 2026")
				So(s.Buckets[0].Label, ShouldEqual, "Jan 2026")
			})
		})
	})
}

func TestMonthLabeler(t *testing.T) {
	Convey("Given month labelers", t, func() {
		Convey("Then pt-BR should be the default", func() {
			l := analytics.NewMonthLabeler(analytics.DefaultLocale)
			So(l.Label(2026, time.February), ShouldEqual, "fev/2026")
			So(l.Locale(), ShouldEqual, "pt-BR")
		})

		Convey("Then unknown locales should fall back to pt-BR", func() {
			So(analytics.NewMonthLabeler("not a tag").Label(2025, time.December), ShouldEqual, "dez/2025")
		})

		Convey("Then regional English should match English", func() {
			So(analytics.NewMonthLabeler("en-US").Label(2025, time.May), ShouldEqual, "May 2025")
		})
	})
}

func TestPercent(t *testing.T) {
	Convey("Given the percentage rounding policy", t, func() {
		So(analytics.Percent(3, 4), ShouldEqual, 75)
		So(analytics.Percent(1, 8), ShouldEqual, 13)
		So(analytics.Percent(1, 3), ShouldEqual, 33)
		So(analytics.Percent(2, 3), ShouldEqual, 67)
		So(analytics.Percent(0, 0), ShouldEqual, 0)
		So(analytics.Percent(1, 0), ShouldEqual, 100)
		So(analytics.Percent(9, 4), ShouldEqual, 100)
	})
}

func coverageSnapshot() *model.Snapshot {
	snap := engSales()
	snap.Teams = append(snap.Teams, model.Team{ID: 30, SectorID: 1})
	snap.Employees = append(snap.Employees, model.Employee{ID: 103, TeamID: 30})
	snap.Assignments = []model.Assignment{
		{EmployeeID: 100, CompetencyID: 1, Level: 3},
		{EmployeeID: 101, CompetencyID: 1, Level: 7},
		{EmployeeID: 102, CompetencyID: 1, Level: 5},
		{EmployeeID: 102, CompetencyID: 2, Level: 0},
		{EmployeeID: 103, CompetencyID: 2, Level: 2},
		{EmployeeID: 103, CompetencyID: 2, Level: 4},
	}
	return snap
}

func TestCoverage(t *testing.T) {
	Convey("Given four employees and assignment records", t, func() {
		snap := coverageSnapshot()
		sc := analytics.NewScope(snap, filter.All)

		Convey("When computing coverage with raw record counts", func() {
			c := analytics.ComputeCoverage(sc, analytics.PolicyRecords, analytics.DefaultTopCompetencies)

			Convey("Then three of four should give 75%", func() {
				So(c.Scoped, ShouldEqual, 4)
				So(c.Rows[0].CompetencyID, ShouldEqual, 1)
				So(c.Rows[0].Covered, ShouldEqual, 3)
				So(c.Rows[0].Percentage, ShouldEqual, 75)
				So(c.Empty, ShouldBeFalse)
			})

			Convey("And duplicate records should count independently", func() {
				So(c.Rows[1].Covered, ShouldEqual, 3)
				So(c.Rows[1].Percentage, ShouldEqual, 75)
			})

			Convey("And every percentage should stay within bounds", func() {
				for _, r := range c.Rows {
					So(r.Percentage, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})

		Convey("When computing coverage with distinct pairs", func() {
			c := analytics.ComputeCoverage(sc, analytics.PolicyDistinct, analytics.DefaultTopCompetencies)

			Convey("Then the duplicate pair should count once", func() {
				So(c.Rows[1].CompetencyID, ShouldEqual, 2)
				So(c.Rows[1].Covered, ShouldEqual, 2)
				So(c.Rows[1].Percentage, ShouldEqual, 50)
			})
		})

		Convey("When nobody holds any competency", func() {
			snap.Assignments = nil
			c := analytics.ComputeCoverage(analytics.NewScope(snap, filter.All), analytics.PolicyRecords, 10)

			Convey("Then the view should be explicitly empty", func() {
				So(c.Empty, ShouldBeTrue)
				So(len(c.Rows), ShouldEqual, 2)
			})
		})

		Convey("When scoped to a sector", func() {
			c := analytics.ComputeCoverage(analytics.NewScope(snap, 1), analytics.PolicyRecords, 10)

			Convey("Then only scoped employees' records should count", func() {
				So(c.Scoped, ShouldEqual, 3)
				So(c.Rows[0].CompetencyID, ShouldEqual, 1)
				So(c.Rows[0].Covered, ShouldEqual, 2)
				So(c.Rows[0].Percentage, ShouldEqual, 67)
			})
		})
	})
}

func TestDistribution(t *testing.T) {
	Convey("Given assignments with out-of-range levels", t, func() {
		sc := analytics.NewScope(coverageSnapshot(), filter.All)

		Convey("When no competency is selected", func() {
			d := analytics.ComputeDistribution(sc, filter.All, analytics.PolicyRecords)

			Convey("Then nothing should be computed", func() {
				So(d.Selected, ShouldBeFalse)
				So(d.Empty, ShouldBeTrue)
				So(len(d.Buckets), ShouldEqual, 0)
			})
		})

		Convey("When competency 1 is selected", func() {
			d := analytics.ComputeDistribution(sc, 1, analytics.PolicyRecords)

			Convey("Then level 7 should be clamped into bucket 5", func() {
				So(len(d.Buckets), ShouldEqual, 5)
				So(d.Buckets[2].Count, ShouldEqual, 1)
				So(d.Buckets[4].Level, ShouldEqual, 5)
				So(d.Buckets[4].Count, ShouldEqual, 2)
				So(d.Buckets[4].Percentage, ShouldEqual, 50)
				So(d.Name, ShouldEqual, "Go")
			})

			Convey("And bucket counts should sum to the record count", func() {
				sum := 0
				for _, b := range d.Buckets {
					sum += b.Count
				}
				So(sum, ShouldEqual, d.Total)
				So(d.Total, ShouldEqual, 3)
			})
		})

		Convey("When competency 2 is selected", func() {
			records := analytics.ComputeDistribution(sc, 2, analytics.PolicyRecords)
			distinct := analytics.ComputeDistribution(sc, 2, analytics.PolicyDistinct)

			Convey("Then level 0 should be clamped into bucket 1", func() {
				So(records.Buckets[0].Count, ShouldEqual, 1)
				So(records.Total, ShouldEqual, 3)
			})

			Convey("And the distinct policy should keep the first record per pair", func() {
				So(distinct.Total, ShouldEqual, 2)
				So(distinct.Buckets[1].Count, ShouldEqual, 1)
				So(distinct.Buckets[3].Count, ShouldEqual, 0)
			})
		})

		Convey("When an unknown competency is selected", func() {
			d := analytics.ComputeDistribution(sc, 42, analytics.PolicyRecords)

			Convey("Then an empty histogram should come back", func() {
				So(d.Selected, ShouldBeTrue)
				So(d.Empty, ShouldBeTrue)
				So(len(d.Buckets), ShouldEqual, 5)
			})
		})
	})
}

func TestEngineCompute(t *testing.T) {
	Convey("Given an engine with custom options", t, func() {
		engine := analytics.NewEngine(
			analytics.WithPolicy(analytics.PolicyDistinct),
			analytics.WithTopTeams(1),
			analytics.WithTopCompetencies(1),
			analytics.WithLabeler(analytics.NewMonthLabeler("en")),
		)

		Convey("When computing over a nil snapshot", func() {
			d := engine.Compute(nil, filter.Initial(), june)

			Convey("Then every view should be empty but well formed", func() {
				So(d.KPIs, ShouldResemble, analytics.KPIs{})
				So(len(d.Sectors), ShouldEqual, 0)
				So(len(d.Admissions.Buckets), ShouldEqual, 6)
				So(d.Coverage.Empty, ShouldBeTrue)
				So(d.Distribution.Empty, ShouldBeTrue)
			})
		})

		Convey("When computing with a competency selected", func() {
			st := filter.Reduce(filter.Initial(), filter.SetCompetency{Competency: 2})
			st = filter.Reduce(st, filter.SetPeriod{Period: filter.Period12})
			d := engine.Compute(coverageSnapshot(), st, june)

			Convey("Then the options should shape the views", func() {
				So(engine.Policy(), ShouldEqual, analytics.PolicyDistinct)
				So(len(d.TopTeams), ShouldEqual, 1)
				So(len(d.Coverage.Rows), ShouldEqual, 1)
				So(len(d.Admissions.Buckets), ShouldEqual, 12)
				So(d.Admissions.Buckets[11].Label, ShouldEqual, "Jun 2026")
				So(d.Distribution.Total, ShouldEqual, 2)
			})
		})
	})
}
