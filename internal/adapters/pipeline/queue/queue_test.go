package queue_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/pitchmix/pitchmix/internal/adapters/pipeline/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func row(line int) queue.Row {
	return queue.Row{File: "sample.csv", Line: line, Cells: []string{"543037", "FF"}}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with a small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, row(2)), ShouldBeTrue)
			So(q.Enqueue(ctx, row(3)), ShouldBeTrue)

			Convey("Then the length reflects the queued rows", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a full queue reports backpressure instead of blocking", func() {
				So(q.Enqueue(ctx, row(4)), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeueing", func() {
			So(q.Enqueue(ctx, row(2)), ShouldBeTrue)
			So(q.Enqueue(ctx, row(3)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			var lines []int
			for r := range q.Dequeue(ctx) {
				lines = append(lines, r.Line)
			}

			Convey("Then rows drain in order and the channel closes", func() {
				So(lines, ShouldResemble, []int{2, 3})
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is refused", func() {
				So(q.Enqueue(ctx, row(2)), ShouldBeFalse)
				So(q.IsClosed(), ShouldBeTrue)
			})

			Convey("And closing again is safe", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is canceled", func() {
			So(q.Enqueue(ctx, row(2)), ShouldBeTrue)
			cancelCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(cancelCtx)
			cancel()

			Convey("Then the dequeue channel closes", func() {
				select {
				case _, ok := <-out:
					// One row may already be in flight before cancel lands.
					if ok {
						_, ok = <-out
						So(ok, ShouldBeFalse)
					}
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})

	Convey("Given a queue with a non-positive capacity option", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(0))

		Convey("Then the default capacity applies", func() {
			So(q.Enqueue(context.Background(), row(2)), ShouldBeTrue)
		})
	})
}
