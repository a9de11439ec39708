// Package hepatology holds liver disease calculators.
package hepatology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// Category groups the calculators in this package.
const Category = "hepatology"

// ChildPughID identifies the Child-Pugh calculator.
const ChildPughID = "child_pugh_score"

// ChildPughInput holds the five Child-Pugh components.
type ChildPughInput struct {
	Bilirubin      float64 `json:"bilirubin" validate:"required,gte=0.1,lte=50"`
	Albumin        float64 `json:"albumin" validate:"required,gte=1,lte=5"`
	INR            float64 `json:"inr" validate:"required,gte=0.8,lte=10"`
	Ascites        string  `json:"ascites" validate:"required,oneof=absent slight moderate"`
	Encephalopathy string  `json:"encephalopathy" validate:"required,oneof=none grade_1_2 grade_3_4"`
}

// ChildPughDetails lists component points and prognosis.
type ChildPughDetails struct {
	Components          map[string]int `json:"components"`
	OneYearSurvival     string         `json:"one_year_survival"`
	TwoYearSurvival     string         `json:"two_year_survival"`
	PerioperativeDeaths string         `json:"perioperative_mortality"`
}

func (ChildPughDetails) ScoreDetails() {}

type childPughClass struct {
	max         int
	stage       string
	description string
	oneYear     string
	twoYear     string
	periop      string
	narrative   string
}

var childPughClasses = []childPughClass{
	{6, "Child-Pugh A", "Well-compensated disease", "100%", "85%", "10%",
		"Well-compensated cirrhosis. Good operative candidate; standard surveillance is appropriate."},
	{9, "Child-Pugh B", "Significant functional compromise", "80%", "60%", "30%",
		"Significant functional compromise. Consider referral for transplant evaluation; elective surgery carries increased risk."},
	{15, "Child-Pugh C", "Decompensated disease", "45%", "35%", "82%",
		"Decompensated cirrhosis. Transplant evaluation is recommended; elective surgery is generally contraindicated."},
}

// ChildPugh returns the Child-Pugh score calculator.
func ChildPugh() calculator.Calculator {
	stages := make([]calculator.Stage, len(childPughClasses))
	for i, c := range childPughClasses {
		stages[i] = calculator.Stage{Label: c.stage, Description: c.description}
	}
	meta := calculator.Metadata{
		ID:          ChildPughID,
		Title:       "Child-Pugh Score for Cirrhosis Mortality",
		Description: "Estimates cirrhosis severity and prognosis from laboratory values and clinical findings.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.Number("bilirubin", "Total bilirubin", 0.1, 50).In("mg/dL"),
			calculator.Number("albumin", "Serum albumin", 1, 5).In("g/dL"),
			calculator.Number("inr", "International normalized ratio", 0.8, 10),
			calculator.Enum("ascites", "Ascites", "absent", "slight", "moderate"),
			calculator.Enum("encephalopathy", "Hepatic encephalopathy", "none", "grade_1_2", "grade_3_4"),
		},
		Output:  calculator.Range("points", 5, 15),
		Stages:  stages,
		Example: score.Params{"bilirubin": 1.5, "albumin": 3.8, "inr": 1.2, "ascites": "absent", "encephalopathy": "none"},
		References: []string{
			"Pugh RN, et al. Transection of the oesophagus for bleeding oesophageal varices. Br J Surg. 1973;60(8):646-9.",
		},
	}
	return calculator.New(meta, computeChildPugh)
}

func computeChildPugh(in ChildPughInput) (score.Result, error) {
	c := map[string]int{
		"bilirubin":      tier(in.Bilirubin < 2, in.Bilirubin <= 3),
		"albumin":        tier(in.Albumin > 3.5, in.Albumin >= 2.8),
		"inr":            tier(in.INR < 1.7, in.INR <= 2.3),
		"ascites":        map[string]int{"absent": 1, "slight": 2, "moderate": 3}[in.Ascites],
		"encephalopathy": map[string]int{"none": 1, "grade_1_2": 2, "grade_3_4": 3}[in.Encephalopathy],
	}
	total := 0
	for _, p := range c {
		total += p
	}

	class := childPughClasses[len(childPughClasses)-1]
	for _, cl := range childPughClasses {
		if total <= cl.max {
			class = cl
			break
		}
	}
	return score.Result{
		Value:            score.Number(float64(total)),
		Unit:             "points",
		Interpretation:   fmt.Sprintf("Child-Pugh score %d (%s). %s", total, class.stage, class.narrative),
		Stage:            class.stage,
		StageDescription: class.description,
		Details: ChildPughDetails{
			Components:          c,
			OneYearSurvival:     class.oneYear,
			TwoYearSurvival:     class.twoYear,
			PerioperativeDeaths: class.periop,
		},
	}, nil
}

// tier returns 1 when best holds, 2 when middle holds, otherwise 3.
func tier(best, middle bool) int {
	switch {
	case best:
		return 1
	case middle:
		return 2
	default:
		return 3
	}
}
