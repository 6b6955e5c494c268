package normalize_test

import (
	"testing"

	normalize "github.com/pitchmix/pitchmix/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func fullHeaderIndex() normalize.FieldIndex {
	idx, err := normalize.BuildFieldIndex([]string{
		"game_date", "pitcher", "player_name", "p_throws", "stand",
		"inning", "inning_topbot", "balls", "strikes",
		"pitch_type", "release_speed", "plate_x", "plate_z",
		"sz_top", "sz_bot", "description", "events",
	})
	So(err, ShouldBeNil)
	return idx
}

func TestNormalizerRow(t *testing.T) {
	Convey("Given a normalizer over a full header", t, func() {
		n := normalize.New()
		idx := fullHeaderIndex()

		Convey("When normalizing a complete row", func() {
			rec, err := n.Row([]string{
				"2025-06-14", "543037", "Gerrit Cole", "R", "L",
				"4", "Top", "1", "2",
				"SL", "88.4", "-0.31", "2.05",
				"3.41", "1.62", "swinging_strike", "strikeout",
			}, idx)

			Convey("Then the record carries the pitcher identity", func() {
				So(err, ShouldBeNil)
				So(rec.ExternalPitcherID, ShouldEqual, 543037)
				So(rec.PitcherName, ShouldEqual, "Gerrit Cole")
				So(rec.PitcherHand, ShouldEqual, "R")
			})

			Convey("And the pitch fields are coerced to their types", func() {
				So(err, ShouldBeNil)
				So(rec.Pitch.PitchType, ShouldEqual, "SL")
				So(rec.Pitch.GameDate.String, ShouldEqual, "2025-06-14")
				So(rec.Pitch.Inning.Int64, ShouldEqual, 4)
				So(rec.Pitch.TopBottom.String, ShouldEqual, "Top")
				So(rec.Pitch.BatterHand.String, ShouldEqual, "L")
				So(rec.Pitch.Balls.Int64, ShouldEqual, 1)
				So(rec.Pitch.Strikes.Int64, ShouldEqual, 2)
				So(rec.Pitch.Velocity.Float64, ShouldAlmostEqual, 88.4, 1e-9)
				So(rec.Pitch.Description, ShouldEqual, "swinging_strike")
				So(rec.Pitch.Outcome.String, ShouldEqual, "strikeout")
			})

			Convey("And the runs value stays null at ingestion time", func() {
				So(err, ShouldBeNil)
				So(rec.Pitch.RunsValue.Valid, ShouldBeFalse)
			})
		})

		Convey("When the pitcher id cell is blank", func() {
			_, err := n.Row([]string{
				"2025-06-14", "", "Gerrit Cole", "R", "L",
				"4", "Top", "1", "2",
				"SL", "88.4", "-0.31", "2.05",
				"3.41", "1.62", "swinging_strike", "",
			}, idx)

			Convey("Then the row is skipped", func() {
				So(err, ShouldEqual, normalize.ErrNoPitcherID)
			})
		})

		Convey("When the pitcher id cell is not an integer", func() {
			_, err := n.Row([]string{
				"2025-06-14", "cole", "Gerrit Cole", "R", "L",
				"4", "Top", "1", "2",
				"SL", "88.4", "-0.31", "2.05",
				"3.41", "1.62", "swinging_strike", "",
			}, idx)

			Convey("Then the row is skipped", func() {
				So(err, ShouldEqual, normalize.ErrBadPitcherID)
			})
		})

		Convey("When the pitch type cell is blank", func() {
			_, err := n.Row([]string{
				"2025-06-14", "543037", "Gerrit Cole", "R", "L",
				"4", "Top", "1", "2",
				"", "88.4", "-0.31", "2.05",
				"3.41", "1.62", "swinging_strike", "",
			}, idx)

			Convey("Then the row is skipped", func() {
				So(err, ShouldEqual, normalize.ErrNoPitchType)
			})
		})

		Convey("When optional cells are garbage or blank", func() {
			rec, err := n.Row([]string{
				"", "543037", "", "", "",
				"abc", "sideways", "x", "",
				"FF", "fast", "", "wide",
				"", "", "", "",
			}, idx)

			Convey("Then the row still materializes with nulls", func() {
				So(err, ShouldBeNil)
				So(rec.Pitch.PitchType, ShouldEqual, "FF")
				So(rec.Pitch.GameDate.Valid, ShouldBeFalse)
				So(rec.Pitch.Inning.Valid, ShouldBeFalse)
				So(rec.Pitch.TopBottom.Valid, ShouldBeFalse)
				So(rec.Pitch.BatterHand.Valid, ShouldBeFalse)
				So(rec.Pitch.Balls.Valid, ShouldBeFalse)
				So(rec.Pitch.Strikes.Valid, ShouldBeFalse)
				So(rec.Pitch.Velocity.Valid, ShouldBeFalse)
				So(rec.Pitch.PlateZ.Valid, ShouldBeFalse)
				So(rec.Pitch.Outcome.Valid, ShouldBeFalse)
			})

			Convey("And the missing name falls back to the default", func() {
				So(err, ShouldBeNil)
				So(rec.PitcherName, ShouldEqual, "Unknown Pitcher")
			})
		})

		Convey("When the row is shorter than the header", func() {
			rec, err := n.Row([]string{
				"2025-06-14", "543037", "Cole", "R", "L",
				"4", "Bot", "0", "0", "CH",
			}, idx)

			Convey("Then absent trailing fields read as null", func() {
				So(err, ShouldBeNil)
				So(rec.Pitch.TopBottom.String, ShouldEqual, "Bottom")
				So(rec.Pitch.Velocity.Valid, ShouldBeFalse)
				So(rec.Pitch.Description, ShouldEqual, "")
			})
		})
	})

	Convey("Given a normalizer with a custom default name", t, func() {
		n := normalize.New(normalize.WithDefaultPitcherName("TBD"))
		idx := fullHeaderIndex()

		Convey("When the name cell is blank", func() {
			rec, err := n.Row([]string{
				"", "1", "", "", "", "", "", "", "",
				"FF", "", "", "", "", "", "", "",
			}, idx)

			Convey("Then the override is used", func() {
				So(err, ShouldBeNil)
				So(rec.PitcherName, ShouldEqual, "TBD")
			})
		})
	})
}

func TestCoercions(t *testing.T) {
	Convey("Given the integer coercion", t, func() {
		Convey("It parses plain integers", func() {
			v := normalize.IntOrNull("42")
			So(v.Valid, ShouldBeTrue)
			So(v.Int64, ShouldEqual, 42)
		})

		Convey("It nulls empty and non-numeric input", func() {
			So(normalize.IntOrNull("").Valid, ShouldBeFalse)
			So(normalize.IntOrNull("4.2").Valid, ShouldBeFalse)
			So(normalize.IntOrNull("four").Valid, ShouldBeFalse)
		})
	})

	Convey("Given the float coercion", t, func() {
		Convey("It parses decimals and negatives", func() {
			v := normalize.FloatOrNull("-1.38")
			So(v.Valid, ShouldBeTrue)
			So(v.Float64, ShouldAlmostEqual, -1.38, 1e-9)
		})

		Convey("It nulls empty and non-numeric input", func() {
			So(normalize.FloatOrNull("").Valid, ShouldBeFalse)
			So(normalize.FloatOrNull("n/a").Valid, ShouldBeFalse)
		})
	})

	Convey("Given the half-inning coercion", t, func() {
		Convey("It maps t-prefixed values to Top", func() {
			So(normalize.HalfInning("Top").String, ShouldEqual, "Top")
			So(normalize.HalfInning("t").String, ShouldEqual, "Top")
			So(normalize.HalfInning("  TOP ").String, ShouldEqual, "Top")
		})

		Convey("It maps b-prefixed values to Bottom", func() {
			So(normalize.HalfInning("Bot").String, ShouldEqual, "Bottom")
			So(normalize.HalfInning("bottom").String, ShouldEqual, "Bottom")
		})

		Convey("It nulls everything else", func() {
			So(normalize.HalfInning("").Valid, ShouldBeFalse)
			So(normalize.HalfInning("middle").Valid, ShouldBeFalse)
		})
	})
}
