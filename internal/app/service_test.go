package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/scorecalc/internal/app"
	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
	"github.com/okian/scorecalc/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type levelInput struct {
	Level int `json:"level" validate:"gte=0,lte=3"`
}

var testStages = []calculator.Stage{{Label: "Normal"}, {Label: "Raised"}}

func testCalculator(id string, compute func(levelInput) (score.Result, error)) calculator.Calculator {
	return calculator.New(calculator.Metadata{
		ID:       id,
		Title:    "Test " + id,
		Category: "testing",
		Parameters: []calculator.Parameter{
			calculator.Integer("level", "level", 0, 3),
		},
		Output:  calculator.Range("points", 0, 3),
		Stages:  testStages,
		Example: score.Params{"level": 1},
	}, compute)
}

func testRegistry() *calculator.Registry {
	reg := calculator.NewRegistry()
	reg.Register(testCalculator("echo", func(in levelInput) (score.Result, error) {
		stage := "Normal"
		if in.Level > 1 {
			stage = "Raised"
		}
		return score.Result{Value: score.Number(float64(in.Level)), Unit: "points", Stage: stage}, nil
	}))
	reg.Register(testCalculator("panics", func(levelInput) (score.Result, error) {
		panic("boom")
	}))
	reg.Register(testCalculator("bad_stage", func(levelInput) (score.Result, error) {
		return score.Result{Value: score.Number(1), Stage: "Unheard Of"}, nil
	}))
	reg.Register(testCalculator("out_of_range", func(levelInput) (score.Result, error) {
		return score.Result{Value: score.Number(99), Stage: "Normal"}, nil
	}))
	reg.Register(testCalculator("fails", func(levelInput) (score.Result, error) {
		return score.Result{}, errors.New("upstream table missing")
	}))
	return reg
}

func TestService_Default(t *testing.T) {
	Convey("Given a service with the default catalog", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("It serves the shipped calculators", func() {
			res, err := svc.Calculate(ctx, "ecog_performance_status", score.Params{"performance_status": "ecog_0"})
			So(err, ShouldBeNil)
			So(res.Value, ShouldResemble, score.Number(0))
			So(res.Stage, ShouldEqual, "ECOG 0")
		})

		Convey("PSA doubling time runs end to end", func() {
			res, err := svc.Calculate(ctx, "psa_doubling_time_calculator", score.Params{"psa_1": 0.5, "days_1": 0, "psa_2": 1.2, "days_2": 180})
			So(err, ShouldBeNil)
			So(res.Value, ShouldResemble, score.Number(4.7))
			So(res.Stage, ShouldEqual, "High Risk")
		})

		Convey("Unknown ids report ErrUnknownCalculator", func() {
			_, err := svc.Calculate(ctx, "nonexistent_score", score.Params{})
			So(errors.Is(err, score.ErrUnknownCalculator), ShouldBeTrue)
		})

		Convey("Categories are sorted and distinct", func() {
			So(svc.Categories(ctx), ShouldResemble, []string{"cardiology", "hepatology", "obstetrics", "oncology"})
		})

		Convey("Listings filter by category and keyword", func() {
			So(len(svc.List(ctx, calculator.Filter{})), ShouldEqual, 9)
			onc := svc.List(ctx, calculator.Filter{Category: "Oncology"})
			So(len(onc), ShouldEqual, 5)
			psa := svc.List(ctx, calculator.Filter{Search: "doubling"})
			So(len(psa), ShouldEqual, 1)
			So(psa[0].ID, ShouldEqual, "psa_doubling_time_calculator")
			So(svc.List(ctx, calculator.Filter{Category: "cardiology", Search: "doubling"}), ShouldBeEmpty)
		})

		Convey("Metadata is available by id", func() {
			meta, err := svc.Metadata(ctx, "child_pugh_score")
			So(err, ShouldBeNil)
			So(meta.Category, ShouldEqual, "hepatology")
			_, err = svc.Metadata(ctx, "missing")
			So(errors.Is(err, score.ErrUnknownCalculator), ShouldBeTrue)
		})
	})
}

func TestService_Dispatch(t *testing.T) {
	Convey("Given a service over a test registry", t, func() {
		svc := service.New(service.WithRegistry(testRegistry()), service.WithLogger(logger.Get()))
		ctx := context.Background()

		Convey("Valid calls return the calculator result", func() {
			res, err := svc.Calculate(ctx, "echo", score.Params{"level": 2})
			So(err, ShouldBeNil)
			So(res.Stage, ShouldEqual, "Raised")
		})

		Convey("Validation errors pass through unchanged", func() {
			_, err := svc.Calculate(ctx, "echo", score.Params{"level": 7})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(errors.Is(err, score.ErrComputation), ShouldBeFalse)
			var verr *score.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Fields[0].Field, ShouldEqual, "level")
		})

		Convey("A panicking calculator becomes a computation failure", func() {
			res, err := svc.Calculate(ctx, "panics", score.Params{"level": 1})
			So(errors.Is(err, score.ErrComputation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "boom")
			So(res, ShouldResemble, score.Result{})
		})

		Convey("An undeclared stage is a computation failure", func() {
			res, err := svc.Calculate(ctx, "bad_stage", score.Params{"level": 1})
			So(errors.Is(err, score.ErrComputation), ShouldBeTrue)
			So(errors.Is(err, calculator.ErrUndeclaredStage), ShouldBeTrue)
			So(res, ShouldResemble, score.Result{})
		})

		Convey("An out-of-range value is a computation failure", func() {
			_, err := svc.Calculate(ctx, "out_of_range", score.Params{"level": 1})
			So(errors.Is(err, score.ErrComputation), ShouldBeTrue)
			So(errors.Is(err, calculator.ErrValueOutOfRange), ShouldBeTrue)
		})

		Convey("Other calculator errors are wrapped as computation failures", func() {
			_, err := svc.Calculate(ctx, "fails", score.Params{"level": 1})
			So(errors.Is(err, score.ErrComputation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "upstream table missing")
		})

		Convey("A cancelled context is reported before dispatch", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Calculate(cctx, "echo", score.Params{"level": 1})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("Stats count outcomes", func() {
			_, _ = svc.Calculate(ctx, "echo", score.Params{"level": 1})
			_, _ = svc.Calculate(ctx, "echo", score.Params{"level": -1})
			_, _ = svc.Calculate(ctx, "fails", score.Params{"level": 1})
			_, _ = svc.Calculate(ctx, "nope", nil)
			stats := svc.GetStats()
			So(stats["calculators"], ShouldEqual, 5)
			So(stats["calculations_ok"], ShouldEqual, int64(1))
			So(stats["calculations_invalid"], ShouldEqual, int64(1))
			So(stats["calculations_failed"], ShouldEqual, int64(1))
			So(stats["unknown_calculator"], ShouldEqual, int64(1))
		})

		Convey("The registry is sealed once the service exists", func() {
			reg := testRegistry()
			So(reg.Sealed(), ShouldBeFalse)
			_ = service.New(service.WithRegistry(reg))
			So(reg.Sealed(), ShouldBeTrue)
			So(func() {
				reg.Register(testCalculator("late", func(levelInput) (score.Result, error) { return score.Result{}, nil }))
			}, ShouldPanic)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats, ShouldContainKey, "uptime_seconds")
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}
