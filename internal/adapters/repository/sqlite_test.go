package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	repository "github.com/pitchmix/pitchmix/internal/adapters/repository"
	"github.com/pitchmix/pitchmix/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

// testPitch builds a located pitch in a 1-2 count for the given pitcher.
func testPitch(pitcherID int64, pitchType, hand, description, outcome string) model.Pitch {
	p := model.Pitch{
		PitcherID:   pitcherID,
		PitchType:   pitchType,
		BatterHand:  nullStr(hand),
		Balls:       nullInt(1),
		Strikes:     nullInt(2),
		PlateX:      nullFloat(0.2),
		PlateZ:      nullFloat(2.4),
		SzTop:       nullFloat(3.4),
		SzBot:       nullFloat(1.6),
		Description: description,
	}
	if outcome != "" {
		p.Outcome = nullStr(outcome)
	}
	return p
}

func TestPitcherRoundTrip(t *testing.T) {
	Convey("Given an open store", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		Convey("When creating a pitcher", func() {
			id, err := store.GetOrCreatePitcher(ctx, 543037, "Gerrit Cole", "R")

			Convey("Then an internal id is assigned", func() {
				So(err, ShouldBeNil)
				So(id, ShouldBeGreaterThan, 0)
			})

			Convey("And a repeat sighting returns the same id untouched", func() {
				So(err, ShouldBeNil)
				again, err := store.GetOrCreatePitcher(ctx, 543037, "Different Name", "L")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, id)

				pitchers, err := store.ListPitchers(ctx)
				So(err, ShouldBeNil)
				So(pitchers, ShouldHaveLength, 1)
				So(pitchers[0].Name, ShouldEqual, "Gerrit Cole")
				So(pitchers[0].ThrowsHand, ShouldEqual, "R")
			})
		})

		Convey("When creating several pitchers", func() {
			_, err := store.GetOrCreatePitcher(ctx, 2, "Zack Wheeler", "R")
			So(err, ShouldBeNil)
			_, err = store.GetOrCreatePitcher(ctx, 1, "Corbin Burnes", "R")
			So(err, ShouldBeNil)

			Convey("Then the list comes back ordered by name", func() {
				pitchers, err := store.ListPitchers(ctx)
				So(err, ShouldBeNil)
				So(pitchers, ShouldHaveLength, 2)
				So(pitchers[0].Name, ShouldEqual, "Corbin Burnes")
				So(pitchers[1].Name, ShouldEqual, "Zack Wheeler")
			})
		})
	})
}

func TestAggregateBySituation(t *testing.T) {
	Convey("Given a store with pitches in a 1-2 count", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		pitcherID, err := store.GetOrCreatePitcher(ctx, 100, "Test Pitcher", "R")
		So(err, ShouldBeNil)

		var pitches []model.Pitch
		// 6 sliders vs L: 4 whiffs, 0 hard hits
		for i := 0; i < 6; i++ {
			desc := "foul"
			if i < 4 {
				desc = "swinging_strike"
			}
			pitches = append(pitches, testPitch(pitcherID, "SL", "L", desc, ""))
		}
		// 5 fastballs vs L: 1 whiff, 2 hard hits
		pitches = append(pitches,
			testPitch(pitcherID, "FF", "L", "swinging_strike_blocked", ""),
			testPitch(pitcherID, "FF", "L", "hit_into_play", "home_run"),
			testPitch(pitcherID, "FF", "L", "hit_into_play", "double"),
			testPitch(pitcherID, "FF", "L", "hit_into_play", "single"),
			testPitch(pitcherID, "FF", "L", "called_strike", ""),
		)
		// 3 changeups vs L: below the floor of 5
		for i := 0; i < 3; i++ {
			pitches = append(pitches, testPitch(pitcherID, "CH", "L", "ball", ""))
		}
		// 5 curveballs vs R only
		for i := 0; i < 5; i++ {
			pitches = append(pitches, testPitch(pitcherID, "CU", "R", "swinging_strike", ""))
		}
		So(store.InsertPitches(ctx, pitches), ShouldBeNil)

		filter := repository.SituationFilter{PitcherID: pitcherID, Balls: 1, Strikes: 2, BatterHand: "L"}

		Convey("When aggregating with the exact hand filter", func() {
			rows, err := store.AggregateBySituation(ctx, filter, 5)

			Convey("Then only groups at or above the floor qualify", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
			})

			Convey("And groups come back ordered by pitch type with exact counts", func() {
				So(err, ShouldBeNil)
				So(rows[0].PitchType, ShouldEqual, "FF")
				So(rows[0].Total, ShouldEqual, 5)
				So(rows[0].Whiffs, ShouldEqual, 1)
				So(rows[0].HardHits, ShouldEqual, 2)
				So(rows[1].PitchType, ShouldEqual, "SL")
				So(rows[1].Total, ShouldEqual, 6)
				So(rows[1].Whiffs, ShouldEqual, 4)
				So(rows[1].HardHits, ShouldEqual, 0)
			})
		})

		Convey("When aggregating pooled over both hands", func() {
			pooled := filter
			pooled.BatterHand = ""
			rows, err := store.AggregateBySituation(ctx, pooled, 5)

			Convey("Then the right-handed curveballs join the result", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].PitchType, ShouldEqual, "CU")
			})
		})

		Convey("When no group reaches the floor", func() {
			rows, err := store.AggregateBySituation(ctx, repository.SituationFilter{
				PitcherID: pitcherID, Balls: 3, Strikes: 0,
			}, 5)

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestAggregateByCount(t *testing.T) {
	Convey("Given a store with pitches across counts", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		pitcherID, err := store.GetOrCreatePitcher(ctx, 200, "Count Pitcher", "L")
		So(err, ShouldBeNil)

		mk := func(balls, strikes int64, pitchType, hand string) model.Pitch {
			p := testPitch(pitcherID, pitchType, hand, "ball", "")
			p.Balls = nullInt(balls)
			p.Strikes = nullInt(strikes)
			return p
		}
		noCount := testPitch(pitcherID, "FF", "R", "ball", "")
		noCount.Balls = sql.NullInt64{}
		noCount.Strikes = sql.NullInt64{}

		So(store.InsertPitches(ctx, []model.Pitch{
			mk(0, 0, "SL", "R"),
			mk(0, 0, "FF", "R"),
			mk(1, 2, "FF", "L"),
			mk(0, 1, "CH", "R"),
			noCount,
		}), ShouldBeNil)

		Convey("When aggregating all hands", func() {
			rows, err := store.AggregateByCount(ctx, pitcherID, "")

			Convey("Then rows order by balls, strikes, pitch type", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 4)
				So(rows[0].Balls, ShouldEqual, 0)
				So(rows[0].Strikes, ShouldEqual, 0)
				So(rows[0].PitchType, ShouldEqual, "FF")
				So(rows[1].PitchType, ShouldEqual, "SL")
				So(rows[2].PitchType, ShouldEqual, "CH")
				So(rows[3].Balls, ShouldEqual, 1)
				So(rows[3].Strikes, ShouldEqual, 2)
			})

			Convey("And rows without a recorded count are excluded", func() {
				So(err, ShouldBeNil)
				var total int
				for _, r := range rows {
					total += r.Total
				}
				So(total, ShouldEqual, 4)
			})
		})

		Convey("When filtering by hand", func() {
			rows, err := store.AggregateByCount(ctx, pitcherID, "L")

			Convey("Then only that hand's pitches count", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].PitchType, ShouldEqual, "FF")
			})
		})
	})
}

func TestLocatedPitches(t *testing.T) {
	Convey("Given a store with located and unlocated pitches", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		pitcherID, err := store.GetOrCreatePitcher(ctx, 300, "Located Pitcher", "R")
		So(err, ShouldBeNil)

		located := testPitch(pitcherID, "FF", "R", "called_strike", "")
		unlocated := testPitch(pitcherID, "SL", "R", "ball", "")
		unlocated.PlateX = sql.NullFloat64{}
		unlocated.PlateZ = sql.NullFloat64{}

		So(store.InsertPitches(ctx, []model.Pitch{located, located, unlocated}), ShouldBeNil)

		filter := repository.SituationFilter{PitcherID: pitcherID, Balls: 1, Strikes: 2, BatterHand: "R"}

		Convey("When querying located pitches", func() {
			rows, err := store.LocatedPitches(ctx, filter, 100)

			Convey("Then only rows with both coordinates return", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].PitchType, ShouldEqual, "FF")
				So(rows[0].SzTop.Valid, ShouldBeTrue)
			})
		})

		Convey("When the limit truncates", func() {
			rows, err := store.LocatedPitches(ctx, filter, 1)

			Convey("Then it truncates silently", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := store.LocatedPitches(ctx, filter, 0)

			Convey("Then the call is rejected", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})
	})
}

func TestIngestSession(t *testing.T) {
	Convey("Given an open store", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		Convey("When a session commits", func() {
			session, err := store.BeginIngest(ctx)
			So(err, ShouldBeNil)

			id, err := session.GetOrCreatePitcher(ctx, 400, "Session Pitcher", "R")
			So(err, ShouldBeNil)
			So(session.Insert(ctx, []model.Pitch{testPitch(id, "FF", "R", "ball", "")}), ShouldBeNil)
			So(session.Commit(), ShouldBeNil)

			Convey("Then the writes are durable", func() {
				n, err := store.CountPitches(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				pitchers, err := store.ListPitchers(ctx)
				So(err, ShouldBeNil)
				So(pitchers, ShouldHaveLength, 1)
			})
		})

		Convey("When a session rolls back", func() {
			session, err := store.BeginIngest(ctx)
			So(err, ShouldBeNil)

			id, err := session.GetOrCreatePitcher(ctx, 500, "Ghost Pitcher", "L")
			So(err, ShouldBeNil)
			So(session.Insert(ctx, []model.Pitch{testPitch(id, "SL", "L", "ball", "")}), ShouldBeNil)
			So(session.Rollback(), ShouldBeNil)

			Convey("Then nothing is left behind", func() {
				n, err := store.CountPitches(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)

				pitchers, err := store.ListPitchers(ctx)
				So(err, ShouldBeNil)
				So(pitchers, ShouldBeEmpty)
			})

			Convey("And rollback after the session ended is a no-op", func() {
				So(session.Rollback(), ShouldBeNil)
			})
		})
	})
}
