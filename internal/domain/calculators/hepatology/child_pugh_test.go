package hepatology

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scorecalc/internal/domain/score"
)

func TestChildPugh(t *testing.T) {
	calc := ChildPugh()
	ctx := context.Background()

	Convey("Given the Child-Pugh calculator", t, func() {
		Convey("Normal values are class A with the minimum score", func() {
			res, err := calc.Calculate(ctx, score.Params{"bilirubin": 1.0, "albumin": 4.0, "inr": 1.0, "ascites": "absent", "encephalopathy": "none"})
			So(err, ShouldBeNil)
			So(res.Value, ShouldResemble, score.Number(5))
			So(res.Stage, ShouldEqual, "Child-Pugh A")
		})

		Convey("Boundary values land in the middle tier", func() {
			res, err := calc.Calculate(ctx, score.Params{"bilirubin": 3.0, "albumin": 2.8, "inr": 2.3, "ascites": "absent", "encephalopathy": "none"})
			So(err, ShouldBeNil)
			So(res.Value, ShouldResemble, score.Number(8))
			So(res.Stage, ShouldEqual, "Child-Pugh B")
			d := res.Details.(ChildPughDetails)
			So(d.Components["bilirubin"], ShouldEqual, 2)
			So(d.Components["albumin"], ShouldEqual, 2)
			So(d.Components["inr"], ShouldEqual, 2)
		})

		Convey("Severe disease is class C", func() {
			res, err := calc.Calculate(ctx, score.Params{"bilirubin": 5.0, "albumin": 2.0, "inr": 3.0, "ascites": "moderate", "encephalopathy": "grade_3_4"})
			So(err, ShouldBeNil)
			So(res.Value, ShouldResemble, score.Number(15))
			So(res.Stage, ShouldEqual, "Child-Pugh C")
			So(calc.Metadata().CheckResult(res), ShouldBeNil)
		})

		Convey("Out-of-range laboratory values are rejected", func() {
			_, err := calc.Calculate(ctx, score.Params{"bilirubin": 60.0, "albumin": 4.0, "inr": 1.0, "ascites": "absent", "encephalopathy": "none"})
			So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "bilirubin")
		})
	})
}
