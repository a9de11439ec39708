package cardiology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// LDLID identifies the calculated LDL calculator.
const LDLID = "ldl_calculated"

const (
	// Friedewald loses accuracy above this triglyceride level (mg/dL).
	friedewaldLimit = 400
	reducedAccuracy = 200
)

// LDLInput holds a standard lipid panel in mg/dL.
type LDLInput struct {
	TotalCholesterol float64 `json:"total_cholesterol" validate:"required,gte=50,lte=1000"`
	HDL              float64 `json:"hdl_cholesterol" validate:"required,gte=10,lte=200"`
	Triglycerides    float64 `json:"triglycerides" validate:"required,gte=30,lte=5000"`
}

// Validate checks that the panel is internally consistent.
func (in *LDLInput) Validate() error {
	if in.HDL >= in.TotalCholesterol {
		return score.Invalid("hdl_cholesterol", "must be less than total_cholesterol")
	}
	if friedewald(*in) < 0 {
		return score.Invalid("triglycerides", "too high for the Friedewald estimate with this panel; measure LDL directly")
	}
	return nil
}

func friedewald(in LDLInput) float64 {
	return in.TotalCholesterol - in.HDL - in.Triglycerides/5
}

// LDLDetails reports the estimate's reliability.
type LDLDetails struct {
	NonHDLCholesterol        float64 `json:"non_hdl_cholesterol"`
	VLDLCholesterol          float64 `json:"vldl_cholesterol"`
	Accuracy                 string  `json:"accuracy"`
	DirectMeasurementAdvised bool    `json:"direct_measurement_advised"`
}

func (LDLDetails) ScoreDetails() {}

type ldlBand struct {
	below       float64
	stage       string
	description string
}

var ldlBands = []ldlBand{
	{100, "Optimal", "Optimal LDL cholesterol"},
	{130, "Near Optimal", "Near or above optimal LDL cholesterol"},
	{160, "Borderline High", "Borderline high LDL cholesterol"},
	{190, "High", "High LDL cholesterol"},
	{1e9, "Very High", "Very high LDL cholesterol"},
}

// LDL returns the Friedewald LDL cholesterol calculator.
func LDL() calculator.Calculator {
	stages := make([]calculator.Stage, len(ldlBands))
	for i, b := range ldlBands {
		stages[i] = calculator.Stage{Label: b.stage, Description: b.description}
	}
	meta := calculator.Metadata{
		ID:          LDLID,
		Title:       "LDL Calculated (Friedewald)",
		Description: "Estimates LDL cholesterol from total cholesterol, HDL and triglycerides.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.Number("total_cholesterol", "Total cholesterol", 50, 1000).In("mg/dL"),
			calculator.Number("hdl_cholesterol", "HDL cholesterol", 10, 200).In("mg/dL"),
			calculator.Number("triglycerides", "Triglycerides", 30, 5000).In("mg/dL"),
		},
		Output:  calculator.Range("mg/dL", 0, 1000),
		Stages:  stages,
		Example: score.Params{"total_cholesterol": 200, "hdl_cholesterol": 50, "triglycerides": 150},
		References: []string{
			"Friedewald WT, et al. Estimation of the concentration of low-density lipoprotein cholesterol in plasma. Clin Chem. 1972;18(6):499-502.",
		},
	}
	return calculator.New(meta, computeLDL)
}

func computeLDL(in LDLInput) (score.Result, error) {
	ldl := score.Round(friedewald(in), 1)
	band := ldlBands[len(ldlBands)-1]
	for _, b := range ldlBands {
		if ldl < b.below {
			band = b
			break
		}
	}

	d := LDLDetails{
		NonHDLCholesterol: score.Round(in.TotalCholesterol-in.HDL, 1),
		VLDLCholesterol:   score.Round(in.Triglycerides/5, 1),
		Accuracy:          "high",
	}
	narrative := fmt.Sprintf("Calculated LDL cholesterol is %.1f mg/dL (%s).", ldl, band.description)
	switch {
	case in.Triglycerides > friedewaldLimit:
		d.Accuracy = "unreliable"
		d.DirectMeasurementAdvised = true
		narrative += " Triglycerides above 400 mg/dL make the Friedewald estimate unreliable; direct LDL measurement is recommended."
	case in.Triglycerides > reducedAccuracy:
		d.Accuracy = "reduced"
		narrative += " Triglycerides above 200 mg/dL reduce the accuracy of the estimate."
	}

	return score.Result{
		Value:            score.Number(ldl),
		Unit:             "mg/dL",
		Interpretation:   narrative,
		Stage:            band.stage,
		StageDescription: band.description,
		Details:          d,
	}, nil
}
