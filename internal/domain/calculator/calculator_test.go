package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scorecalc/internal/domain/score"
)

type sampleInput struct {
	Count *int     `json:"count" validate:"required,gte=0,lte=10"`
	Level float64  `json:"level" validate:"required,gt=0"`
	Mode  string   `json:"mode" validate:"required,oneof=fast slow"`
	Extra *float64 `json:"extra" validate:"omitempty,lte=5"`
}

func (in *sampleInput) Validate() error {
	if in.Mode == "fast" && *in.Count > 5 {
		return score.Invalid("count", "must be at most 5 in fast mode")
	}
	return nil
}

var sampleMeta = Metadata{
	ID:       "sample",
	Title:    "Sample",
	Category: "test",
	Parameters: []Parameter{
		Integer("count", "count", 0, 10),
		Number("level", "level", 0, 100),
		Enum("mode", "mode", "fast", "slow"),
		Number("extra", "extra", 0, 5).Optional(),
	},
	Output: Range("points", 0, 100),
	Stages: []Stage{{Label: "Low"}, {Label: "High"}},
}

func newSample(calls *int) Calculator {
	return New(sampleMeta, func(in sampleInput) (score.Result, error) {
		*calls++
		total := float64(*in.Count) * in.Level
		stage := "Low"
		if total >= 50 {
			stage = "High"
		}
		return score.Result{Value: score.Number(total), Unit: "points", Stage: stage}, nil
	})
}

func fieldNames(err error) []string {
	var verr *score.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestTypedCalculator(t *testing.T) {
	Convey("Given a typed calculator", t, func() {
		calls := 0
		calc := newSample(&calls)
		ctx := context.Background()

		Convey("Valid parameters reach the compute function", func() {
			res, err := calc.Calculate(ctx, score.Params{"count": 3, "level": 2.5, "mode": "slow"})
			So(err, ShouldBeNil)
			v, ok := res.Value.Float()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7.5)
			So(calls, ShouldEqual, 1)
		})

		Convey("Zero is accepted for a required pointer field", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 0, "level": 1.0, "mode": "fast"})
			So(err, ShouldBeNil)
		})

		Convey("JSON numbers decode into int and float fields", func() {
			res, err := calc.Calculate(ctx, score.Params{"count": json.Number("4"), "level": json.Number("12.5"), "mode": "slow"})
			So(err, ShouldBeNil)
			v, _ := res.Value.Float()
			So(v, ShouldEqual, 50)
			So(res.Stage, ShouldEqual, "High")
		})

		Convey("A whole float fills an integer field", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 4.0, "level": 1.0, "mode": "slow"})
			So(err, ShouldBeNil)
		})

		Convey("A fractional value for an integer field is rejected", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 4.5, "level": 1.0, "mode": "slow"})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(fieldNames(err), ShouldContain, "count")
			So(calls, ShouldEqual, 0)
		})

		Convey("A whole number too large for an integer field is rejected", func() {
			for _, v := range []any{1e300, -1e300, float64(1 << 63), json.Number("1e300"), json.Number("9223372036854775808")} {
				_, err := calc.Calculate(ctx, score.Params{"count": v, "level": 1.0, "mode": "slow"})
				So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
				var verr *score.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldHaveLength, 1)
				So(verr.Fields[0].Field, ShouldEqual, "count")
				So(verr.Fields[0].Message, ShouldContainSubstring, "out of range")
			}
			So(calls, ShouldEqual, 0)
		})

		Convey("A string is never coerced to a number", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 1, "level": "2", "mode": "slow"})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(fieldNames(err), ShouldContain, "level")
		})

		Convey("Unknown keys are rejected by name", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 1, "level": 2.0, "mode": "slow", "bogus": 1})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(fieldNames(err), ShouldResemble, []string{"bogus"})
			So(calls, ShouldEqual, 0)
		})

		Convey("Every missing required field is reported", func() {
			_, err := calc.Calculate(ctx, score.Params{})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			names := fieldNames(err)
			So(names, ShouldContain, "count")
			So(names, ShouldContain, "level")
			So(names, ShouldContain, "mode")
			So(names, ShouldNotContain, "extra")
		})

		Convey("Range and enumeration constraints use wire names", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 11, "level": 1.0, "mode": "medium", "extra": 9.0})
			names := fieldNames(err)
			So(names, ShouldContain, "count")
			So(names, ShouldContain, "mode")
			So(names, ShouldContain, "extra")
			So(err.Error(), ShouldContainSubstring, "must be one of: fast, slow")
		})

		Convey("Cross-field rules run after per-field rules pass", func() {
			_, err := calc.Calculate(ctx, score.Params{"count": 7, "level": 1.0, "mode": "fast"})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "fast mode")
			So(calls, ShouldEqual, 0)
		})
	})
}

func TestMetadataCheckResult(t *testing.T) {
	Convey("Given sample metadata", t, func() {
		Convey("Enumerated stage and in-range value pass", func() {
			So(sampleMeta.CheckResult(score.Result{Value: score.Number(10), Stage: "Low"}), ShouldBeNil)
		})
		Convey("An undeclared stage fails", func() {
			err := sampleMeta.CheckResult(score.Result{Value: score.Number(10), Stage: "Medium"})
			So(errors.Is(err, ErrUndeclaredStage), ShouldBeTrue)
		})
		Convey("Values outside the range fail", func() {
			err := sampleMeta.CheckResult(score.Result{Value: score.Number(101), Stage: "High"})
			So(errors.Is(err, ErrValueOutOfRange), ShouldBeTrue)
			err = sampleMeta.CheckResult(score.Result{Value: score.Number(-1), Stage: "Low"})
			So(errors.Is(err, ErrValueOutOfRange), ShouldBeTrue)
		})
		Convey("Text values skip the range check", func() {
			So(sampleMeta.CheckResult(score.Result{Value: score.Text("n/a"), Stage: "Low"}), ShouldBeNil)
		})
		Convey("An empty value fails", func() {
			So(sampleMeta.CheckResult(score.Result{Stage: "Low"}), ShouldEqual, ErrEmptyValue)
		})
		Convey("Required lists only required parameters", func() {
			So(sampleMeta.Required(), ShouldResemble, []string{"count", "level", "mode"})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry", t, func() {
		calls := 0
		reg := NewRegistry()
		reg.Register(newSample(&calls))

		Convey("Registered calculators are found by id", func() {
			c, ok := reg.Lookup("sample")
			So(ok, ShouldBeTrue)
			So(c.Metadata().Title, ShouldEqual, "Sample")
			_, ok = reg.Lookup("nope")
			So(ok, ShouldBeFalse)
			So(reg.Len(), ShouldEqual, 1)
		})

		Convey("Duplicate ids panic", func() {
			So(func() { reg.Register(newSample(&calls)) }, ShouldPanic)
		})

		Convey("Calculators without stages panic", func() {
			meta := sampleMeta
			meta.ID = "stageless"
			meta.Stages = nil
			So(func() {
				reg.Register(New(meta, func(sampleInput) (score.Result, error) { return score.Result{}, nil }))
			}, ShouldPanic)
		})

		Convey("A sealed registry rejects registration", func() {
			So(reg.Seal().Sealed(), ShouldBeTrue)
			meta := sampleMeta
			meta.ID = "late"
			So(func() {
				reg.Register(New(meta, func(sampleInput) (score.Result, error) { return score.Result{}, nil }))
			}, ShouldPanic)
			_, ok := reg.Lookup("sample")
			So(ok, ShouldBeTrue)
		})

		Convey("List is ordered by id", func() {
			meta := sampleMeta
			meta.ID = "another"
			reg.Register(New(meta, func(sampleInput) (score.Result, error) { return score.Result{}, nil }))
			list := reg.List()
			So(len(list), ShouldEqual, 2)
			So(list[0].ID, ShouldEqual, "another")
			So(list[1].ID, ShouldEqual, "sample")
		})
	})
}
