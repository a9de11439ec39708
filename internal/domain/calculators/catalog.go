// Package calculators assembles the shipped calculators into a registry.
package calculators

import (
	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/calculators/cardiology"
	"github.com/okian/scorecalc/internal/domain/calculators/hepatology"
	"github.com/okian/scorecalc/internal/domain/calculators/obstetrics"
	"github.com/okian/scorecalc/internal/domain/calculators/oncology"
)

// Register adds every shipped calculator to r.
func Register(r *calculator.Registry) {
	r.Register(oncology.PSADoublingTime())
	r.Register(oncology.ECOG())
	r.Register(oncology.DAmico())
	r.Register(oncology.Gleason())
	r.Register(oncology.MASCC())
	r.Register(obstetrics.ModifiedBishop())
	r.Register(cardiology.CHADS2())
	r.Register(cardiology.LDL())
	r.Register(hepatology.ChildPugh())
}

// Default returns a sealed registry holding every shipped calculator.
func Default() *calculator.Registry {
	r := calculator.NewRegistry()
	Register(r)
	return r.Seal()
}
