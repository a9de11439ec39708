package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type testDetails struct {
	Points int `json:"points"`
}

func (testDetails) ScoreDetails() {}

func TestValue(t *testing.T) {
	Convey("Given result values", t, func() {
		Convey("Numbers and text encode as their JSON kinds", func() {
			out, err := json.Marshal(Result{Value: Number(4.7), Stage: "High Risk"})
			So(err, ShouldBeNil)
			So(string(out), ShouldContainSubstring, `"result":4.7`)
			So(string(out), ShouldNotContainSubstring, `"details"`)

			out, err = json.Marshal(Result{Value: Text("not applicable"), Details: testDetails{Points: 2}})
			So(err, ShouldBeNil)
			So(string(out), ShouldContainSubstring, `"result":"not applicable"`)
			So(string(out), ShouldContainSubstring, `"details":{"points":2}`)
		})

		Convey("The empty value is null", func() {
			var v Value
			So(v.IsZero(), ShouldBeTrue)
			out, err := json.Marshal(v)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, "null")
		})

		Convey("Non-finite numbers cannot be encoded", func() {
			_, err := json.Marshal(Number(math.Inf(1)))
			So(err, ShouldNotBeNil)
			_, err = json.Marshal(Number(math.NaN()))
			So(err, ShouldNotBeNil)
		})

		Convey("Decoding accepts numbers, strings and null only", func() {
			var v Value
			So(json.Unmarshal([]byte(`12`), &v), ShouldBeNil)
			f, ok := v.Float()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 12)

			So(json.Unmarshal([]byte(`"low"`), &v), ShouldBeNil)
			So(v.IsText(), ShouldBeTrue)
			So(v.String(), ShouldEqual, "low")

			So(json.Unmarshal([]byte(`true`), &v), ShouldNotBeNil)
		})

		Convey("String renders numbers without trailing zeros", func() {
			So(Number(6).String(), ShouldEqual, "6")
			So(Number(0.25).String(), ShouldEqual, "0.25")
		})
	})
}

func TestValidationError(t *testing.T) {
	Convey("Given a validation error", t, func() {
		Convey("An empty collector is not an error", func() {
			e := &ValidationError{}
			So(e.Err(), ShouldBeNil)
			var nilErr *ValidationError
			So(nilErr.Err(), ShouldBeNil)
		})

		Convey("Violations are listed in order and match ErrInvalidParameters", func() {
			e := &ValidationError{}
			e.Add("psa_1", "is required")
			e.Addf("days_2", "must be at most %d", 36500)
			err := e.Err()
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrInvalidParameters), ShouldBeTrue)
			So(errors.Is(err, ErrComputation), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "invalid parameters: psa_1: is required; days_2: must be at most 36500")
		})

		Convey("Wrapped validation errors keep their fields", func() {
			err := fmt.Errorf("calculate: %w", Invalid("nulliparity", "conflicts with %s", "prior_vaginal_deliveries"))
			var verr *ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Fields, ShouldResemble, []FieldError{{Field: "nulliparity", Message: "conflicts with prior_vaginal_deliveries"}})
		})
	})
}

func TestRound(t *testing.T) {
	Convey("Round keeps the requested decimals", t, func() {
		So(Round(4.6666, 1), ShouldEqual, 4.7)
		So(Round(2.25, 0), ShouldEqual, 2)
		So(Round(-3.14159, 2), ShouldEqual, -3.14)
	})
}
