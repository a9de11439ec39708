// Package obstetrics holds labor and delivery calculators.
package obstetrics

import (
	"fmt"
	"strings"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// Category groups the calculators in this package.
const Category = "obstetrics"

// BishopID identifies the modified Bishop score calculator.
const BishopID = "modified_bishop_score"

var (
	dilationPoints    = map[string]int{"closed": 0, "1_2_cm": 1, "3_4_cm": 2, "5_plus_cm": 3}
	lengthPoints      = map[string]int{"gt_4_cm": 0, "2_4_cm": 1, "1_2_cm": 2, "lt_1_cm": 3}
	stationPoints     = map[string]int{"minus_3": 0, "minus_2": 1, "minus_1_0": 2, "plus_1_plus_2": 3}
	consistencyPoints = map[string]int{"firm": 0, "medium": 1, "soft": 2}
	positionPoints    = map[string]int{"posterior": 0, "mid": 1, "anterior": 2}
)

// BishopInput holds the cervical examination and the score modifiers.
type BishopInput struct {
	Dilation             string `json:"cervical_dilation" validate:"required,oneof=closed 1_2_cm 3_4_cm 5_plus_cm"`
	Length               string `json:"cervical_length" validate:"required,oneof=gt_4_cm 2_4_cm 1_2_cm lt_1_cm"`
	Station              string `json:"fetal_station" validate:"required,oneof=minus_3 minus_2 minus_1_0 plus_1_plus_2"`
	Consistency          string `json:"cervical_consistency" validate:"required,oneof=firm medium soft"`
	Position             string `json:"cervical_position" validate:"required,oneof=posterior mid anterior"`
	Preeclampsia         string `json:"preeclampsia" validate:"required,oneof=yes no"`
	PriorVaginalDelivery string `json:"prior_vaginal_deliveries" validate:"required,oneof=yes no"`
	Postdates            string `json:"postdates_pregnancy" validate:"required,oneof=yes no"`
	Nulliparity          string `json:"nulliparity" validate:"required,oneof=yes no"`
	PROM                 string `json:"prolonged_rupture_of_membranes" validate:"required,oneof=yes no"`
}

// Validate rejects contradictory parity history.
func (in *BishopInput) Validate() error {
	if in.Nulliparity == "yes" && in.PriorVaginalDelivery == "yes" {
		return score.Invalid("prior_vaginal_deliveries", "cannot be yes when nulliparity is yes")
	}
	return nil
}

// BishopDetails separates the cervical examination from the modifiers.
type BishopDetails struct {
	CervicalScore int      `json:"cervical_score"`
	Adjustment    int      `json:"adjustment"`
	Modifiers     []string `json:"modifiers,omitempty"`
}

func (BishopDetails) ScoreDetails() {}

// ModifiedBishop returns the modified Bishop score calculator.
func ModifiedBishop() calculator.Calculator {
	meta := calculator.Metadata{
		ID:    BishopID,
		Title: "Modified Bishop Score",
		Description: "Assesses cervical readiness for induction of labor using cervical length in place of effacement, " +
			"adjusted for clinical modifiers.",
		Category: Category,
		Version:  "1.0",
		Parameters: []calculator.Parameter{
			calculator.Enum("cervical_dilation", "Cervical dilation", "closed", "1_2_cm", "3_4_cm", "5_plus_cm"),
			calculator.Enum("cervical_length", "Cervical length", "gt_4_cm", "2_4_cm", "1_2_cm", "lt_1_cm"),
			calculator.Enum("fetal_station", "Station of the presenting part", "minus_3", "minus_2", "minus_1_0", "plus_1_plus_2"),
			calculator.Enum("cervical_consistency", "Cervical consistency", "firm", "medium", "soft"),
			calculator.Enum("cervical_position", "Cervical position", "posterior", "mid", "anterior"),
			calculator.YesNo("preeclampsia", "Preeclampsia (+1)"),
			calculator.YesNo("prior_vaginal_deliveries", "One or more prior vaginal deliveries (+1)"),
			calculator.YesNo("postdates_pregnancy", "Postdates pregnancy (-1)"),
			calculator.YesNo("nulliparity", "Nulliparous (-1)"),
			calculator.YesNo("prolonged_rupture_of_membranes", "Premature or prolonged rupture of membranes (-1)"),
		},
		Output: calculator.Range("points", -3, 15),
		Stages: []calculator.Stage{
			{Label: "Unfavorable", Description: "Unfavorable cervix"},
			{Label: "Intermediate", Description: "Intermediate cervical readiness"},
			{Label: "Favorable", Description: "Favorable cervix"},
		},
		Example: score.Params{
			"cervical_dilation":              "1_2_cm",
			"cervical_length":                "2_4_cm",
			"fetal_station":                  "minus_2",
			"cervical_consistency":           "medium",
			"cervical_position":              "mid",
			"preeclampsia":                   "no",
			"prior_vaginal_deliveries":       "yes",
			"postdates_pregnancy":            "no",
			"nulliparity":                    "no",
			"prolonged_rupture_of_membranes": "no",
		},
		References: []string{
			"Bishop EH. Pelvic scoring for elective induction. Obstet Gynecol. 1964;24:266-8.",
			"Calder AA, et al. Cervical ripening: a comparison of prostaglandin F2alpha and oxytocin. Br J Obstet Gynaecol. 1977;84(4):264-8.",
		},
	}
	return calculator.New(meta, computeBishop)
}

func computeBishop(in BishopInput) (score.Result, error) {
	cervical := dilationPoints[in.Dilation] + lengthPoints[in.Length] + stationPoints[in.Station] +
		consistencyPoints[in.Consistency] + positionPoints[in.Position]

	adjust := 0
	var mods []string
	for _, m := range []struct {
		set   string
		delta int
		name  string
	}{
		{in.Preeclampsia, 1, "preeclampsia"},
		{in.PriorVaginalDelivery, 1, "prior vaginal delivery"},
		{in.Postdates, -1, "postdates pregnancy"},
		{in.Nulliparity, -1, "nulliparity"},
		{in.PROM, -1, "prolonged rupture of membranes"},
	} {
		if m.set == "yes" {
			adjust += m.delta
			mods = append(mods, fmt.Sprintf("%s (%+d)", m.name, m.delta))
		}
	}
	total := cervical + adjust

	res := score.Result{
		Value:   score.Number(float64(total)),
		Unit:    "points",
		Details: BishopDetails{CervicalScore: cervical, Adjustment: adjust, Modifiers: mods},
	}
	switch {
	case total >= 8:
		res.Stage, res.StageDescription = "Favorable", "Favorable cervix"
		res.Interpretation = "The cervix is favorable. Likelihood of vaginal delivery after induction is similar to spontaneous labor; induction with oxytocin or amniotomy is reasonable."
	case total >= 6:
		res.Stage, res.StageDescription = "Intermediate", "Intermediate cervical readiness"
		res.Interpretation = "Cervical readiness is intermediate. Induction may succeed, but cervical ripening should be considered."
	default:
		res.Stage, res.StageDescription = "Unfavorable", "Unfavorable cervix"
		res.Interpretation = "The cervix is unfavorable. Cervical ripening agents are recommended before induction of labor."
	}
	if len(mods) > 0 {
		res.Interpretation += " Modifiers applied: " + strings.Join(mods, ", ") + "."
	}
	return res, nil
}
