package oncology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// ECOGID identifies the ECOG performance status calculator.
const ECOGID = "ecog_performance_status"

type ecogGrade struct {
	description string
	karnofsky   string
	narrative   string
}

var ecogGrades = []ecogGrade{
	{"Fully active", "90-100",
		"Fully active, able to carry on all pre-disease performance without restriction. Generally eligible for all standard treatments and clinical trials."},
	{"Restricted in physically strenuous activity", "70-80",
		"Restricted in physically strenuous activity but ambulatory and able to carry out work of a light or sedentary nature. Usually a candidate for standard systemic therapy."},
	{"Ambulatory and capable of all self-care", "50-60",
		"Ambulatory and capable of all self-care but unable to carry out any work activities; up and about more than 50% of waking hours. Treatment intensity may need adjustment."},
	{"Capable of only limited self-care", "30-40",
		"Capable of only limited self-care; confined to bed or chair more than 50% of waking hours. Aggressive therapy is usually not appropriate; focus on symptom control."},
	{"Completely disabled", "10-20",
		"Completely disabled; cannot carry on any self-care and totally confined to bed or chair. Best supportive care is generally recommended."},
	{"Dead", "0", "Dead."},
}

// ECOGInput is the observed functional status.
type ECOGInput struct {
	PerformanceStatus string `json:"performance_status" validate:"required,oneof=ecog_0 ecog_1 ecog_2 ecog_3 ecog_4 ecog_5"`
}

// ECOGDetails maps the grade to its Karnofsky equivalent.
type ECOGDetails struct {
	KarnofskyEquivalent string `json:"karnofsky_equivalent"`
}

func (ECOGDetails) ScoreDetails() {}

// ECOG returns the ECOG performance status calculator.
func ECOG() calculator.Calculator {
	options := make([]string, len(ecogGrades))
	stages := make([]calculator.Stage, len(ecogGrades))
	for i, g := range ecogGrades {
		options[i] = fmt.Sprintf("ecog_%d", i)
		stages[i] = calculator.Stage{Label: fmt.Sprintf("ECOG %d", i), Description: g.description}
	}
	meta := calculator.Metadata{
		ID:          ECOGID,
		Title:       "ECOG Performance Status",
		Description: "Grades a cancer patient's level of functioning in terms of self-care, daily activity and physical ability.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.Enum("performance_status", "Observed functional status", options...),
		},
		Output:  calculator.Range("points", 0, 5),
		Stages:  stages,
		Example: score.Params{"performance_status": "ecog_1"},
		References: []string{
			"Oken MM, et al. Toxicity and response criteria of the Eastern Cooperative Oncology Group. Am J Clin Oncol. 1982;5(6):649-55.",
		},
	}
	return calculator.New(meta, func(in ECOGInput) (score.Result, error) {
		var grade int
		if _, err := fmt.Sscanf(in.PerformanceStatus, "ecog_%d", &grade); err != nil || grade < 0 || grade >= len(ecogGrades) {
			return score.Result{}, fmt.Errorf("%w: unmapped performance status %q", score.ErrComputation, in.PerformanceStatus)
		}
		g := ecogGrades[grade]
		return score.Result{
			Value:            score.Number(float64(grade)),
			Unit:             "points",
			Interpretation:   g.narrative,
			Stage:            fmt.Sprintf("ECOG %d", grade),
			StageDescription: g.description,
			Details:          ECOGDetails{KarnofskyEquivalent: g.karnofsky},
		}, nil
	})
}
