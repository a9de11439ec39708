package oncology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// MASCCID identifies the MASCC risk index calculator.
const MASCCID = "mascc_risk_index_febrile_neutropenia"

const masccLowRiskThreshold = 21

// MASCCInput holds the seven MASCC criteria.
type MASCCInput struct {
	BurdenOfIllness  string `json:"burden_of_illness" validate:"required,oneof=none_mild moderate severe"`
	Hypotension      string `json:"hypotension" validate:"required,oneof=yes no"`
	ActiveCOPD       string `json:"active_copd" validate:"required,oneof=yes no"`
	CancerType       string `json:"cancer_type" validate:"required,oneof=solid_tumor_or_hematologic_no_prior_fungal hematologic_with_prior_fungal"`
	DehydrationIV    string `json:"dehydration_requiring_iv" validate:"required,oneof=yes no"`
	FeverOnsetStatus string `json:"fever_onset_status" validate:"required,oneof=outpatient inpatient"`
	PatientAge       int    `json:"patient_age" validate:"required,gte=18,lte=100"`
}

// MASCCDetails breaks the index down by criterion.
type MASCCDetails struct {
	Components map[string]int `json:"components"`
}

func (MASCCDetails) ScoreDetails() {}

// MASCC returns the MASCC risk index calculator.
func MASCC() calculator.Calculator {
	meta := calculator.Metadata{
		ID:    MASCCID,
		Title: "MASCC Risk Index for Febrile Neutropenia",
		Description: "Identifies febrile neutropenic cancer patients at low risk of serious complications " +
			"who may be candidates for outpatient management.",
		Category: Category,
		Version:  "1.0",
		Parameters: []calculator.Parameter{
			calculator.Enum("burden_of_illness", "Burden of febrile neutropenia symptoms", "none_mild", "moderate", "severe"),
			calculator.YesNo("hypotension", "Systolic blood pressure below 90 mmHg"),
			calculator.YesNo("active_copd", "Active chronic obstructive pulmonary disease"),
			calculator.Enum("cancer_type", "Tumor type and fungal infection history",
				"solid_tumor_or_hematologic_no_prior_fungal", "hematologic_with_prior_fungal"),
			calculator.YesNo("dehydration_requiring_iv", "Dehydration requiring parenteral fluids"),
			calculator.Enum("fever_onset_status", "Status at onset of fever", "outpatient", "inpatient"),
			calculator.Integer("patient_age", "Patient age", 18, 100).In("years"),
		},
		Output: calculator.Range("points", 0, 26),
		Stages: []calculator.Stage{
			{Label: "Low Risk", Description: "Low risk of serious complications"},
			{Label: "High Risk", Description: "High risk of serious complications"},
		},
		Example: score.Params{
			"burden_of_illness":        "none_mild",
			"hypotension":              "no",
			"active_copd":              "no",
			"cancer_type":              "solid_tumor_or_hematologic_no_prior_fungal",
			"dehydration_requiring_iv": "no",
			"fever_onset_status":       "outpatient",
			"patient_age":              45,
		},
		References: []string{
			"Klastersky J, et al. The Multinational Association for Supportive Care in Cancer risk index. J Clin Oncol. 2000;18(16):3038-51.",
		},
	}
	return calculator.New(meta, computeMASCC)
}

func computeMASCC(in MASCCInput) (score.Result, error) {
	c := map[string]int{
		"burden_of_illness":        map[string]int{"none_mild": 5, "moderate": 3, "severe": 0}[in.BurdenOfIllness],
		"hypotension":              pointsIf(!yes(in.Hypotension), 5),
		"active_copd":              pointsIf(!yes(in.ActiveCOPD), 4),
		"cancer_type":              pointsIf(in.CancerType == "solid_tumor_or_hematologic_no_prior_fungal", 4),
		"dehydration_requiring_iv": pointsIf(!yes(in.DehydrationIV), 3),
		"fever_onset_status":       pointsIf(in.FeverOnsetStatus == "outpatient", 3),
		"patient_age":              pointsIf(in.PatientAge < 60, 2),
	}
	total := 0
	for _, p := range c {
		total += p
	}

	res := score.Result{
		Value:   score.Number(float64(total)),
		Unit:    "points",
		Details: MASCCDetails{Components: c},
	}
	if total >= masccLowRiskThreshold {
		res.Stage = "Low Risk"
		res.StageDescription = "Low risk of serious complications"
		res.Interpretation = fmt.Sprintf("MASCC index %d (>= %d): low risk of serious complications. "+
			"Selected patients may be considered for oral antibiotics and outpatient management.", total, masccLowRiskThreshold)
		return res, nil
	}
	res.Stage = "High Risk"
	res.StageDescription = "High risk of serious complications"
	res.Interpretation = fmt.Sprintf("MASCC index %d (< %d): high risk of serious complications. "+
		"Hospital admission with empirical intravenous broad-spectrum antibiotics is recommended.", total, masccLowRiskThreshold)
	return res, nil
}

func pointsIf(cond bool, points int) int {
	if cond {
		return points
	}
	return 0
}
