package oncology

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// GleasonID identifies the Gleason score calculator.
const GleasonID = "gleason_score_prostate"

// GleasonInput holds the primary and secondary histologic patterns.
type GleasonInput struct {
	Primary   int `json:"primary_grade" validate:"required,oneof=3 4 5"`
	Secondary int `json:"secondary_grade" validate:"required,oneof=3 4 5"`
}

// GleasonDetails reports the pattern and ISUP grade group.
type GleasonDetails struct {
	Pattern    string `json:"pattern"`
	GradeGroup int    `json:"isup_grade_group"`
}

func (GleasonDetails) ScoreDetails() {}

var gleasonStages = []calculator.Stage{
	{Label: "Low-Grade Cancer (Grade Group 1)", Description: "Well-differentiated, slow-growing tumor"},
	{Label: "Intermediate-Grade Cancer (Grade Group 2-3)", Description: "Moderately differentiated tumor"},
	{Label: "High-Grade Cancer (Grade Group 4)", Description: "Poorly differentiated tumor"},
	{Label: "Very High-Grade Cancer (Grade Group 5)", Description: "Very poorly differentiated, aggressive tumor"},
}

var gleasonNarratives = map[int]string{
	1: "Grade Group 1 cancer is the least aggressive form. Active surveillance is often appropriate.",
	2: "Grade Group 2 cancer is predominantly well-formed glands with a minor poorly formed component. Favorable intermediate prognosis.",
	3: "Grade Group 3 cancer is predominantly poorly formed glands. Unfavorable intermediate prognosis; definitive treatment is usually advised.",
	4: "Grade Group 4 cancer carries a high risk of progression. Definitive multimodal treatment is typically recommended.",
	5: "Grade Group 5 cancer is the most aggressive form with the highest risk of progression and metastasis. Aggressive multimodal treatment is recommended.",
}

// Gleason returns the Gleason score calculator.
func Gleason() calculator.Calculator {
	meta := calculator.Metadata{
		ID:          GleasonID,
		Title:       "Gleason Score for Prostate Cancer",
		Description: "Sums the primary and secondary Gleason patterns and maps the result to an ISUP grade group.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.Integer("primary_grade", "Most common histologic pattern", 3, 5),
			calculator.Integer("secondary_grade", "Second most common histologic pattern", 3, 5),
		},
		Output:  calculator.Range("points", 6, 10),
		Stages:  gleasonStages,
		Example: score.Params{"primary_grade": 3, "secondary_grade": 4},
		References: []string{
			"Epstein JI, et al. The 2014 ISUP Consensus Conference on Gleason Grading of Prostatic Carcinoma. Am J Surg Pathol. 2016;40(2):244-52.",
		},
	}
	return calculator.New(meta, func(in GleasonInput) (score.Result, error) {
		total := in.Primary + in.Secondary
		group := gradeGroup(in.Primary, in.Secondary)

		var stage calculator.Stage
		switch group {
		case 1:
			stage = gleasonStages[0]
		case 2, 3:
			stage = gleasonStages[1]
		case 4:
			stage = gleasonStages[2]
		default:
			stage = gleasonStages[3]
		}
		return score.Result{
			Value:            score.Number(float64(total)),
			Unit:             "points",
			Interpretation:   fmt.Sprintf("Gleason %d+%d=%d. %s", in.Primary, in.Secondary, total, gleasonNarratives[group]),
			Stage:            stage.Label,
			StageDescription: stage.Description,
			Details:          GleasonDetails{Pattern: fmt.Sprintf("%d+%d", in.Primary, in.Secondary), GradeGroup: group},
		}, nil
	})
}

func gradeGroup(primary, secondary int) int {
	switch total := primary + secondary; {
	case total <= 6:
		return 1
	case total == 7 && primary == 3:
		return 2
	case total == 7:
		return 3
	case total == 8:
		return 4
	default:
		return 5
	}
}
