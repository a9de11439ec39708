// Package cardiology holds cardiovascular risk calculators.
package cardiology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// Category groups the calculators in this package.
const Category = "cardiology"

// CHADS2ID identifies the CHADS2 calculator.
const CHADS2ID = "chads2_score"

// Adjusted annual stroke rate (%) by CHADS2 score.
var chads2StrokeRate = [...]float64{1.9, 2.8, 4.0, 5.9, 8.5, 12.5, 18.2}

// CHADS2Input holds the five CHADS2 criteria.
type CHADS2Input struct {
	CHF          string `json:"congestive_heart_failure" validate:"required,oneof=yes no"`
	Hypertension string `json:"hypertension" validate:"required,oneof=yes no"`
	Age75        string `json:"age_75_or_older" validate:"required,oneof=yes no"`
	Diabetes     string `json:"diabetes_mellitus" validate:"required,oneof=yes no"`
	PriorStroke  string `json:"stroke_tia_thromboembolism" validate:"required,oneof=yes no"`
}

// CHADS2Details reports the expected stroke rate.
type CHADS2Details struct {
	AnnualStrokeRatePercent float64 `json:"annual_stroke_rate_percent"`
}

func (CHADS2Details) ScoreDetails() {}

var chads2Stages = []calculator.Stage{
	{Label: "Low Risk", Description: "Low stroke risk"},
	{Label: "Low-Intermediate Risk", Description: "Low to intermediate stroke risk"},
	{Label: "Intermediate Risk", Description: "Intermediate stroke risk"},
	{Label: "High Risk", Description: "High stroke risk"},
	{Label: "Very High Risk", Description: "Very high stroke risk"},
}

// CHADS2 returns the CHADS2 stroke risk calculator.
func CHADS2() calculator.Calculator {
	meta := calculator.Metadata{
		ID:          CHADS2ID,
		Title:       "CHADS2 Score for Atrial Fibrillation Stroke Risk",
		Description: "Estimates annual stroke risk in non-valvular atrial fibrillation.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.YesNo("congestive_heart_failure", "History of congestive heart failure (+1)"),
			calculator.YesNo("hypertension", "History of hypertension (+1)"),
			calculator.YesNo("age_75_or_older", "Age 75 years or older (+1)"),
			calculator.YesNo("diabetes_mellitus", "Diabetes mellitus (+1)"),
			calculator.YesNo("stroke_tia_thromboembolism", "Prior stroke, TIA or thromboembolism (+2)"),
		},
		Output: calculator.Range("points", 0, 6),
		Stages: chads2Stages,
		Example: score.Params{
			"congestive_heart_failure":   "no",
			"hypertension":               "yes",
			"age_75_or_older":            "yes",
			"diabetes_mellitus":          "no",
			"stroke_tia_thromboembolism": "no",
		},
		References: []string{
			"Gage BF, et al. Validation of clinical classification schemes for predicting stroke. JAMA. 2001;285(22):2864-70.",
		},
	}
	return calculator.New(meta, func(in CHADS2Input) (score.Result, error) {
		total := 0
		for _, v := range []string{in.CHF, in.Hypertension, in.Age75, in.Diabetes} {
			if v == "yes" {
				total++
			}
		}
		if in.PriorStroke == "yes" {
			total += 2
		}

		var stage calculator.Stage
		var advice string
		switch {
		case total == 0:
			stage, advice = chads2Stages[0], "Anticoagulation is generally not required; aspirin or no therapy may be considered."
		case total == 1:
			stage, advice = chads2Stages[1], "Consider oral anticoagulation or aspirin based on bleeding risk and patient preference."
		case total == 2:
			stage, advice = chads2Stages[2], "Oral anticoagulation is recommended unless contraindicated."
		case total <= 4:
			stage, advice = chads2Stages[3], "Oral anticoagulation is strongly recommended."
		default:
			stage, advice = chads2Stages[4], "Oral anticoagulation is strongly recommended; assess bleeding risk carefully."
		}
		rate := chads2StrokeRate[total]
		return score.Result{
			Value:            score.Number(float64(total)),
			Unit:             "points",
			Interpretation:   fmt.Sprintf("CHADS2 score %d: adjusted annual stroke risk of %.1f%%. %s", total, rate, advice),
			Stage:            stage.Label,
			StageDescription: stage.Description,
			Details:          CHADS2Details{AnnualStrokeRatePercent: rate},
		}, nil
	})
}
