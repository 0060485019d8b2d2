package dedupe_test

import (
	"testing"

	dedupe "github.com/okian/orgpulse/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(8))

		Convey("Then it should start empty", func() {
			So(d, ShouldNotBeNil)
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When recording a new key", func() {
			seen := d.SeenAndRecord(dedupe.AssignmentKey(100, 1))

			Convey("Then it should return false and record the key", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same pair twice", func() {
			d.SeenAndRecord(dedupe.AssignmentKey(100, 1))
			seen := d.SeenAndRecord(dedupe.AssignmentKey(100, 1))

			Convey("Then the second call should report it as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording pairs that share an id on one side", func() {
			So(d.SeenAndRecord(dedupe.AssignmentKey(100, 1)), ShouldBeFalse)
			So(d.SeenAndRecord(dedupe.AssignmentKey(1, 100)), ShouldBeFalse)
			So(d.SeenAndRecord(dedupe.AssignmentKey(10, 1)), ShouldBeFalse)

			Convey("Then each pair should be distinct", func() {
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})
}

func TestPassThrough(t *testing.T) {
	Convey("Given a pass-through deduper", t, func() {
		d := dedupe.NewPassThrough()

		Convey("When the same key is recorded repeatedly", func() {
			for i := 0; i < 3; i++ {
				So(d.SeenAndRecord(dedupe.AssignmentKey(100, 1)), ShouldBeFalse)
			}

			Convey("Then every record should be counted", func() {
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})
}
