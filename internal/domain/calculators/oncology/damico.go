package oncology

import (
	"fmt"
	"strings"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// DAmicoID identifies the D'Amico risk classification calculator.
const DAmicoID = "damico_risk_classification"

var damicoTreatments = []string{"radical_prostatectomy", "external_beam_radiation", "brachytherapy", "active_surveillance", "not_specified"}

// DAmicoInput holds the three D'Amico criteria. Age and planned treatment
// only shape the recommendations; they never move the risk group.
type DAmicoInput struct {
	PSA              float64 `json:"psa_level" validate:"required,gte=0.1,lte=500"`
	Gleason          int     `json:"gleason_score" validate:"required,gte=2,lte=10"`
	ClinicalStage    string  `json:"clinical_stage" validate:"required,oneof=T1a T1b T1c T2a T2b T2c T3a T3b T4"`
	PatientAge       *int    `json:"patient_age" validate:"omitempty,gte=40,lte=100"`
	TreatmentPlanned string  `json:"treatment_planned" validate:"omitempty,oneof=radical_prostatectomy external_beam_radiation brachytherapy active_surveillance not_specified"`
}

// DAmicoDetails lists which criteria drove the classification.
type DAmicoDetails struct {
	RiskFactors             []string `json:"risk_factors"`
	FiveYearBiochemicalFree string   `json:"five_year_biochemical_recurrence_free"`
	Considerations          []string `json:"additional_considerations,omitempty"`
	AgeFactor               string   `json:"age_factor,omitempty"`
}

func (DAmicoDetails) ScoreDetails() {}

type damicoGroup struct {
	value       string
	stage       string
	description string
	freeRate    string
	narrative   string
}

var (
	damicoLow = damicoGroup{"low", "Low Risk", "Low risk of biochemical recurrence", "approximately 85-90%",
		"Low-risk localized prostate cancer. Active surveillance, radical prostatectomy or radiotherapy are all reasonable options."}
	damicoIntermediate = damicoGroup{"intermediate", "Intermediate Risk", "Intermediate risk of biochemical recurrence", "approximately 60-70%",
		"Intermediate-risk prostate cancer. Definitive local therapy is usually recommended; short-course androgen deprivation may be added to radiotherapy."}
	damicoHigh = damicoGroup{"high", "High Risk", "High risk of biochemical recurrence", "approximately 30-40%",
		"High-risk prostate cancer. Multimodal treatment is recommended, such as radiotherapy with long-course androgen deprivation or prostatectomy with pelvic lymph node dissection."}
)

// DAmico returns the D'Amico risk classification calculator.
func DAmico() calculator.Calculator {
	meta := calculator.Metadata{
		ID:          DAmicoID,
		Title:       "D'Amico Risk Classification for Prostate Cancer",
		Description: "Stratifies localized prostate cancer into low, intermediate or high risk of biochemical recurrence after local therapy.",
		Category:    Category,
		Version:     "1.0",
		Parameters: []calculator.Parameter{
			calculator.Number("psa_level", "Pre-treatment PSA", 0.1, 500).In("ng/mL"),
			calculator.Integer("gleason_score", "Biopsy Gleason score", 2, 10),
			calculator.Enum("clinical_stage", "Clinical T stage", "T1a", "T1b", "T1c", "T2a", "T2b", "T2c", "T3a", "T3b", "T4"),
			calculator.Integer("patient_age", "Patient age, used for treatment considerations", 40, 100).In("years").Optional(),
			calculator.Enum("treatment_planned", "Planned treatment modality", damicoTreatments...).Optional(),
		},
		Output: calculator.Output{Type: calculator.TypeString, Unit: "risk group"},
		Stages: []calculator.Stage{
			{Label: damicoLow.stage, Description: damicoLow.description},
			{Label: damicoIntermediate.stage, Description: damicoIntermediate.description},
			{Label: damicoHigh.stage, Description: damicoHigh.description},
		},
		Example: score.Params{
			"psa_level":         8.5,
			"gleason_score":     6,
			"clinical_stage":    "T1c",
			"patient_age":       65,
			"treatment_planned": "radical_prostatectomy",
		},
		References: []string{
			"D'Amico AV, et al. Biochemical outcome after radical prostatectomy, external beam radiation therapy, or interstitial radiation therapy for clinically localized prostate cancer. JAMA. 1998;280(11):969-74.",
		},
	}
	return calculator.New(meta, computeDAmico)
}

func computeDAmico(in DAmicoInput) (score.Result, error) {
	var high, intermediate []string
	switch {
	case in.PSA > 20:
		high = append(high, fmt.Sprintf("PSA %.1f ng/mL > 20", in.PSA))
	case in.PSA > 10:
		intermediate = append(intermediate, fmt.Sprintf("PSA %.1f ng/mL between 10 and 20", in.PSA))
	}
	switch {
	case in.Gleason >= 8:
		high = append(high, fmt.Sprintf("Gleason %d >= 8", in.Gleason))
	case in.Gleason == 7:
		intermediate = append(intermediate, "Gleason 7")
	}
	switch in.ClinicalStage {
	case "T2c", "T3a", "T3b", "T4":
		high = append(high, "clinical stage "+in.ClinicalStage)
	case "T2b":
		intermediate = append(intermediate, "clinical stage T2b")
	}

	group, factors := damicoLow, []string{}
	switch {
	case len(high) > 0:
		group, factors = damicoHigh, high
	case len(intermediate) > 0:
		group, factors = damicoIntermediate, intermediate
	}

	narrative := group.narrative
	if len(factors) > 0 {
		narrative = fmt.Sprintf("%s Determining factors: %s.", narrative, strings.Join(factors, "; "))
	}
	return score.Result{
		Value:            score.Text(group.value),
		Unit:             "risk group",
		Interpretation:   narrative,
		Stage:            group.stage,
		StageDescription: group.description,
		Details: DAmicoDetails{
			RiskFactors:             factors,
			FiveYearBiochemicalFree: group.freeRate,
			Considerations:          damicoConsiderations(group, in),
			AgeFactor:               damicoAgeFactor(in.PatientAge),
		},
	}, nil
}

func damicoConsiderations(group damicoGroup, in DAmicoInput) []string {
	var out []string
	if in.PatientAge != nil {
		switch age := *in.PatientAge; {
		case age < 55:
			out = append(out, "Young age favors treatment with curative intent")
			if group == damicoLow {
				out = append(out, "Consider active surveillance with strict monitoring")
			}
		case age > 75:
			out = append(out,
				"Advanced age may favor less aggressive approaches",
				"Consider life expectancy and comorbidities in treatment selection")
		}
	}
	switch in.TreatmentPlanned {
	case "active_surveillance":
		if group == damicoLow {
			out = append(out, "Suitable candidate for an active surveillance protocol")
		} else {
			out = append(out, "Active surveillance is usually reserved for low-risk disease")
		}
	case "radical_prostatectomy":
		out = append(out, "Surgery offers durable local cancer control")
		if group == damicoHigh {
			out = append(out, "Consider extended pelvic lymph node dissection")
		}
	case "external_beam_radiation", "brachytherapy":
		out = append(out, "Radiotherapy gives outcomes comparable to surgery")
		if group != damicoLow {
			out = append(out, "Consider adding androgen deprivation therapy")
		}
	}
	return out
}

func damicoAgeFactor(age *int) string {
	switch {
	case age == nil:
		return ""
	case *age < 60:
		return "Younger age means longer life expectancy and more benefit from cure"
	case *age > 75:
		return "Advanced age may limit treatment options"
	default:
		return "Age suits all standard treatment modalities"
	}
}
