package calculators_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scorecalc/internal/domain/calculators"
	"github.com/okian/scorecalc/internal/domain/score"
)

func without(p score.Params, key string) score.Params {
	out := make(score.Params, len(p))
	for k, v := range p {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func with(p score.Params, key string, v any) score.Params {
	out := without(p, key)
	out[key] = v
	return out
}

func invalidFields(err error) []string {
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

func TestCatalog(t *testing.T) {
	reg := calculators.Default()
	ctx := context.Background()

	Convey("Given the default catalog", t, func() {
		So(reg.Sealed(), ShouldBeTrue)
		So(reg.Len(), ShouldEqual, 9)

		for _, meta := range reg.List() {
			calc, ok := reg.Lookup(meta.ID)
			So(ok, ShouldBeTrue)

			Convey(meta.ID+" accepts its example and honors its output contract", func() {
				res, err := calc.Calculate(ctx, meta.Example)
				So(err, ShouldBeNil)
				So(meta.CheckResult(res), ShouldBeNil)
				So(res.Interpretation, ShouldNotBeBlank)
				So(res.StageDescription, ShouldNotBeBlank)
			})

			Convey(meta.ID+" is idempotent", func() {
				a, errA := calc.Calculate(ctx, meta.Example)
				b, errB := calc.Calculate(ctx, meta.Example)
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})

			Convey(meta.ID+" names every missing required field", func() {
				for _, name := range meta.Required() {
					_, err := calc.Calculate(ctx, without(meta.Example, name))
					So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
					var verr *score.ValidationError
					So(errors.As(err, &verr), ShouldBeTrue)
					So(verr.Fields[0].Field, ShouldEqual, name)
				}
			})

			Convey(meta.ID+" rejects values outside each declared range or option set", func() {
				for _, param := range meta.Parameters {
					var bad []any
					if param.Min != nil {
						bad = append(bad, *param.Min-1)
						if param.ExclusiveMin {
							bad = append(bad, *param.Min)
						}
					}
					if param.Max != nil {
						bad = append(bad, *param.Max+1)
					}
					if len(param.Options) > 0 {
						bad = append(bad, "not_an_option")
					}
					for _, v := range bad {
						_, err := calc.Calculate(ctx, with(meta.Example, param.Name, v))
						So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
						So(invalidFields(err), ShouldContain, param.Name)
					}
				}
			})

			Convey(meta.ID+" rejects unknown parameters", func() {
				p := without(meta.Example, "")
				p["unexpected_field"] = 1
				_, err := calc.Calculate(ctx, p)
				So(errors.Is(err, score.ErrInvalidParameters), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unexpected_field")
			})

			Convey(meta.ID+" describes every parameter its example uses", func() {
				declared := map[string]bool{}
				for _, p := range meta.Parameters {
					declared[p.Name] = true
				}
				for key := range meta.Example {
					So(declared[key], ShouldBeTrue)
				}
				So(meta.Category, ShouldNotBeBlank)
				So(meta.References, ShouldNotBeEmpty)
			})
		}
	})
}
