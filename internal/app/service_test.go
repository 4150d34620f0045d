package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/savor/internal/adapters/leaderboard"
	"github.com/okian/savor/internal/adapters/record"
	service "github.com/okian/savor/internal/app"
	"github.com/okian/savor/internal/domain/model"
	"github.com/okian/savor/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// newTestService builds a started service on the in-memory store with a
// deterministic index.
func newTestService(ctx context.Context) *service.Service {
	svc := service.New(
		service.WithRecordStore(record.NewMemory()),
		service.WithIndex(leaderboard.NewTreapIndex(leaderboard.WithPrioritySeed(1))),
	)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["storage"], ShouldEqual, service.StorageMemory)
			})
		})
	})
}

func TestService_CreateRestaurant(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx)
		defer svc.Stop()

		Convey("When creating a valid restaurant", func() {
			created, err := svc.CreateRestaurant(ctx, "Pasta Palace", "12 Via Roma")

			Convey("Then it should succeed with zeroed aggregates", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeEmpty)
				So(created.Name, ShouldEqual, "Pasta Palace")
				So(created.AverageSentiment, ShouldEqual, 0.0)
				So(created.TotalReviews, ShouldEqual, 0)
			})

			Convey("And it should not appear on the leaderboard", func() {
				board, err := svc.Leaderboard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldBeEmpty)
			})
		})

		Convey("When creating a restaurant without a name", func() {
			_, err := svc.CreateRestaurant(ctx, "  ", "12 Via Roma")

			Convey("Then it should fail validation", func() {
				So(err, ShouldWrap, service.ErrValidation)
			})
		})

		Convey("When creating a restaurant without a location", func() {
			_, err := svc.CreateRestaurant(ctx, "Pasta Palace", "")

			Convey("Then it should fail validation", func() {
				So(err, ShouldWrap, service.ErrValidation)
			})
		})
	})
}

func TestService_AddReview(t *testing.T) {
	Convey("Given a started service with one restaurant", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx)
		defer svc.Stop()

		created, err := svc.CreateRestaurant(ctx, "Pasta Palace", "12 Via Roma")
		So(err, ShouldBeNil)

		Convey("When adding a clearly positive review", func() {
			review, updated, err := svc.AddReview(ctx, created.ID, "Amazing food, great service, absolutely loved it!")

			Convey("Then it should be scored positive and update the board", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(review.SentimentLabel, ShouldEqual, "positive")
				So(review.SentimentScore, ShouldBeGreaterThan, 0.05)
			})

			Convey("And the restaurant should be ranked first", func() {
				board, err := svc.Leaderboard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].Rank, ShouldEqual, 1)
				So(board[0].Restaurant.ID, ShouldEqual, created.ID)
				So(board[0].CachedSentiment, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When adding a clearly negative review", func() {
			review, updated, err := svc.AddReview(ctx, created.ID, "Terrible food, awful service, disgusting.")

			Convey("Then it should be scored negative", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(review.SentimentLabel, ShouldEqual, "negative")
				So(review.SentimentScore, ShouldBeLessThan, -0.05)
			})
		})

		Convey("When adding several reviews", func() {
			_, _, err := svc.AddReview(ctx, created.ID, "Amazing food, great service, absolutely loved it!")
			So(err, ShouldBeNil)
			_, _, err = svc.AddReview(ctx, created.ID, "Terrible food, awful service, disgusting.")
			So(err, ShouldBeNil)

			Convey("Then the board carries the average of all reviews", func() {
				board, err := svc.Leaderboard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].Restaurant.TotalReviews, ShouldEqual, 2)
				So(board[0].CachedSentiment, ShouldBeBetween, -1.0, 1.0)
			})
		})

		Convey("When reviewing an unknown restaurant", func() {
			_, _, err := svc.AddReview(ctx, "no-such-id", "Great!")

			Convey("Then it should fail with not found and persist nothing", func() {
				So(err, ShouldWrap, record.ErrNotFound)
				stats := svc.GetStats()
				So(stats["totalReviews"], ShouldEqual, 0)
			})
		})

		Convey("When the review text is blank", func() {
			_, _, err := svc.AddReview(ctx, created.ID, "   ")

			Convey("Then it should fail validation", func() {
				So(err, ShouldWrap, service.ErrValidation)
			})
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	Convey("Given a started service with two reviewed restaurants", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx)
		defer svc.Stop()

		good, err := svc.CreateRestaurant(ctx, "Sushi Spot", "7 Harbor Way")
		So(err, ShouldBeNil)
		bad, err := svc.CreateRestaurant(ctx, "Burger Barn", "48 Main St")
		So(err, ShouldBeNil)

		_, _, err = svc.AddReview(ctx, good.ID, "Fresh fish and wonderful presentation, excellent!")
		So(err, ShouldBeNil)
		_, _, err = svc.AddReview(ctx, bad.ID, "Terrible burger, cold fries, awful experience.")
		So(err, ShouldBeNil)

		Convey("When fetching the full leaderboard", func() {
			board, err := svc.Leaderboard(ctx)

			Convey("Then the better restaurant should come first", func() {
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 2)
				So(board[0].Rank, ShouldEqual, 1)
				So(board[0].Restaurant.ID, ShouldEqual, good.ID)
				So(board[1].Rank, ShouldEqual, 2)
				So(board[1].Restaurant.ID, ShouldEqual, bad.ID)
			})
		})

		Convey("When fetching the top 1", func() {
			top, err := svc.TopN(ctx, 1)

			Convey("Then it should hold the best restaurant at rank 1", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].Rank, ShouldEqual, 1)
				So(top[0].Restaurant.ID, ShouldEqual, good.ID)
			})
		})

		Convey("When fetching the bottom 1", func() {
			bottom, err := svc.BottomN(ctx, 1)

			Convey("Then it should hold the worst restaurant with its global rank", func() {
				So(err, ShouldBeNil)
				So(bottom, ShouldHaveLength, 1)
				So(bottom[0].Rank, ShouldEqual, 2)
				So(bottom[0].Restaurant.ID, ShouldEqual, bad.ID)
			})
		})

		Convey("When asking for more entries than exist", func() {
			top, err := svc.TopN(ctx, 10)

			Convey("Then it should return what there is", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
			})
		})

		Convey("When deleting a ranked restaurant", func() {
			err := svc.DeleteRestaurant(ctx, good.ID)

			Convey("Then it should disappear from the leaderboard", func() {
				So(err, ShouldBeNil)
				board, err := svc.Leaderboard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].Rank, ShouldEqual, 1)
				So(board[0].Restaurant.ID, ShouldEqual, bad.ID)
			})

			Convey("And its reviews should be gone with it", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["totalRestaurants"], ShouldEqual, 1)
				So(stats["totalReviews"], ShouldEqual, 1)
			})
		})
	})
}

func TestService_ListRestaurants(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx)
		defer svc.Stop()

		Convey("When no restaurants exist", func() {
			list, err := svc.ListRestaurants(ctx)

			Convey("Then the list should be empty", func() {
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When restaurants with reviews exist", func() {
			created, err := svc.CreateRestaurant(ctx, "Pasta Palace", "12 Via Roma")
			So(err, ShouldBeNil)
			_, _, err = svc.AddReview(ctx, created.ID, "Amazing pasta, absolutely loved it!")
			So(err, ShouldBeNil)

			list, err := svc.ListRestaurants(ctx)

			Convey("Then aggregates should be derived from the reviews", func() {
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
				So(list[0].TotalReviews, ShouldEqual, 1)
				So(list[0].AverageSentiment, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestService_PrimesIndexOnStart(t *testing.T) {
	Convey("Given a record store that already holds data", t, func() {
		ctx := context.Background()
		store := record.NewMemory()

		r := model.NewRestaurant("Pasta Palace", "12 Via Roma")
		So(store.CreateRestaurant(ctx, r), ShouldBeNil)
		rv := model.NewReview(r.ID, "Amazing pasta!", 0.8, model.LabelPositive)
		So(store.CreateReview(ctx, rv), ShouldBeNil)

		Convey("When a service starts over that store", func() {
			svc := service.New(
				service.WithRecordStore(store),
				service.WithIndex(leaderboard.NewTreapIndex(leaderboard.WithPrioritySeed(1))),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the leaderboard should already be populated", func() {
				board, err := svc.Leaderboard(ctx)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].Restaurant.ID, ShouldEqual, r.ID)
				So(board[0].CachedSentiment, ShouldEqual, 0.8)
			})
		})
	})
}
