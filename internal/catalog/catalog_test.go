package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/futchampions/tracker-api/internal/catalog"
	"github.com/futchampions/tracker-api/internal/models"
)

func TestLoad(t *testing.T) {
	Convey("Given no catalog file", t, func() {
		Convey("When loading", func() {
			cat, err := catalog.Load("")

			Convey("Then the built-in defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cat.Achievements, ShouldHaveLength, len(catalog.Default().Achievements))
				So(cat.Feedback.Milestones.Games, ShouldEqual, 50)
				So(cat.Feedback.Streak.Window, ShouldEqual, 5)
			})
		})

		Convey("When an env var overrides a threshold", func() {
			t.Setenv("FUT_CATALOG_FEEDBACK__MILESTONES__GOALS", "250")
			cat, err := catalog.Load("")

			Convey("Then only that threshold changes", func() {
				So(err, ShouldBeNil)
				So(cat.Feedback.Milestones.Goals, ShouldEqual, 250)
				So(cat.Feedback.Milestones.Games, ShouldEqual, 50)
			})
		})
	})

	Convey("Given a YAML file with custom achievements", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.yaml")
		content := `
achievements:
  - id: wins_3
    name: Warm Up
    metric: total_wins
    target: 3
    tier: bronze
    points: 5
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			cat, err := catalog.Load(path)

			Convey("Then the file replaces the achievement list and keeps default pools", func() {
				So(err, ShouldBeNil)
				So(cat.Achievements, ShouldHaveLength, 1)
				So(cat.Achievements[0].ID, ShouldEqual, "wins_3")
				So(cat.Achievements[0].Metric, ShouldEqual, models.MetricTotalWins)
				So(cat.Feedback.EncouragementWin, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a file with an unknown metric", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		content := `
achievements:
  - id: bogus
    metric: total_assists
    target: 3
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("Then loading fails validation", func() {
			_, err := catalog.Load(path)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a missing file", t, func() {
		Convey("Then loading returns an error", func() {
			_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cat := catalog.Default()

		Convey("It validates", func() {
			So(cat.Validate(), ShouldBeNil)
		})

		Convey("Duplicate ids are rejected", func() {
			cat.Achievements = append(cat.Achievements, cat.Achievements[0])
			So(cat.Validate(), ShouldNotBeNil)
		})

		Convey("An empty feedback pool is rejected", func() {
			cat.Feedback.AnalysisLoss = nil
			So(cat.Validate(), ShouldNotBeNil)
		})
	})
}
