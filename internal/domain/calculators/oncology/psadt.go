package oncology

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/regression"
	"github.com/okian/scorecalc/internal/domain/score"
)

// PSADTID identifies the PSA doubling time calculator.
const PSADTID = "psa_doubling_time_calculator"

const (
	daysPerMonth = 30.44
	maxPSA       = 10000
	maxDays      = 36500

	stageIndeterminate = "Indeterminate"
	notApplicable      = "not applicable"
)

type psadtBand struct {
	below       float64
	stage       string
	description string
	narrative   string
}

// Bands are ordered by upper bound; the lower bound of each band is inclusive.
var psadtBands = []psadtBand{
	{3, "Very High Risk", "Rapid PSA progression",
		"PSA doubling time under 3 months indicates very aggressive disease with a high risk of metastatic progression and prostate cancer-specific mortality. Consider prompt systemic staging and discussion of intensified treatment."},
	{6, "High Risk", "Fast PSA progression",
		"PSA doubling time between 3 and 6 months indicates aggressive biochemical progression associated with early metastasis. Consider imaging and evaluation for additional systemic therapy."},
	{12, "Intermediate Risk", "Moderate PSA progression",
		"PSA doubling time between 6 and 12 months indicates moderate progression. Continue close surveillance and weigh salvage or systemic options with the patient."},
	{36, "Low Risk", "Slow PSA progression",
		"PSA doubling time between 12 and 36 months indicates slow progression with a relatively favorable prognosis. Routine surveillance is generally appropriate."},
	{math.Inf(1), "Very Low Risk", "Very slow PSA progression",
		"PSA doubling time of 36 months or more indicates very slow progression and a low likelihood of clinically significant disease progression in the near term."},
}

// PSADTInput carries two to five PSA measurements with their collection days.
type PSADTInput struct {
	PSA1  *float64 `json:"psa_1" validate:"required,gt=0,lte=10000"`
	Days1 *int     `json:"days_1" validate:"required,gte=0,lte=36500"`
	PSA2  *float64 `json:"psa_2" validate:"required,gt=0,lte=10000"`
	Days2 *int     `json:"days_2" validate:"required,gte=0,lte=36500"`
	PSA3  *float64 `json:"psa_3" validate:"omitempty,gt=0,lte=10000"`
	Days3 *int     `json:"days_3" validate:"omitempty,gte=0,lte=36500"`
	PSA4  *float64 `json:"psa_4" validate:"omitempty,gt=0,lte=10000"`
	Days4 *int     `json:"days_4" validate:"omitempty,gte=0,lte=36500"`
	PSA5  *float64 `json:"psa_5" validate:"omitempty,gt=0,lte=10000"`
	Days5 *int     `json:"days_5" validate:"omitempty,gte=0,lte=36500"`
}

type psaSample struct {
	psa  float64
	days int
}

// Validate enforces pairing of the optional measurements and unique days.
func (in *PSADTInput) Validate() error {
	verr := &score.ValidationError{}
	optional := []struct {
		n    int
		psa  *float64
		days *int
	}{{3, in.PSA3, in.Days3}, {4, in.PSA4, in.Days4}, {5, in.PSA5, in.Days5}}
	for _, o := range optional {
		switch {
		case o.psa != nil && o.days == nil:
			verr.Addf(fmt.Sprintf("days_%d", o.n), "is required when psa_%d is provided", o.n)
		case o.psa == nil && o.days != nil:
			verr.Addf(fmt.Sprintf("psa_%d", o.n), "is required when days_%d is provided", o.n)
		}
	}
	if err := verr.Err(); err != nil {
		return err
	}

	seen := make(map[int]int)
	for i, s := range in.samples() {
		if first, dup := seen[s.days]; dup {
			verr.Addf(fmt.Sprintf("days_%d", i+1), "time points must be unique (same as days_%d)", first+1)
			continue
		}
		seen[s.days] = i
	}
	return verr.Err()
}

// samples returns the supplied measurements in parameter order.
func (in *PSADTInput) samples() []psaSample {
	out := []psaSample{{*in.PSA1, *in.Days1}, {*in.PSA2, *in.Days2}}
	for _, p := range []struct {
		psa  *float64
		days *int
	}{{in.PSA3, in.Days3}, {in.PSA4, in.Days4}, {in.PSA5, in.Days5}} {
		if p.psa != nil && p.days != nil {
			out = append(out, psaSample{*p.psa, *p.days})
		}
	}
	return out
}

// PSADTDetails exposes the regression behind the doubling time.
type PSADTDetails struct {
	SlopePerMonth      float64  `json:"slope_per_month"`
	Intercept          float64  `json:"intercept"`
	RSquared           float64  `json:"r_squared"`
	Points             int      `json:"points"`
	DoublingTimeDays   *float64 `json:"doubling_time_days,omitempty"`
	FirstPSA           float64  `json:"first_psa"`
	LastPSA            float64  `json:"last_psa"`
	ObservationMonths  float64  `json:"observation_months"`
	PSAVelocityPerYear float64  `json:"psa_velocity_per_year"`
}

func (PSADTDetails) ScoreDetails() {}

// PSADoublingTime returns the PSA doubling time calculator.
func PSADoublingTime() calculator.Calculator {
	params := []calculator.Parameter{
		calculator.Number("psa_1", "First PSA value", 0, maxPSA).Above().In("ng/mL"),
		calculator.Integer("days_1", "Day of the first PSA measurement", 0, maxDays).In("days"),
		calculator.Number("psa_2", "Second PSA value", 0, maxPSA).Above().In("ng/mL"),
		calculator.Integer("days_2", "Day of the second PSA measurement", 0, maxDays).In("days"),
	}
	for n := 3; n <= 5; n++ {
		params = append(params,
			calculator.Number(fmt.Sprintf("psa_%d", n), fmt.Sprintf("PSA value %d (requires days_%d)", n, n), 0, maxPSA).Above().In("ng/mL").Optional(),
			calculator.Integer(fmt.Sprintf("days_%d", n), fmt.Sprintf("Day of PSA measurement %d (requires psa_%d)", n, n), 0, maxDays).In("days").Optional(),
		)
	}

	stages := make([]calculator.Stage, 0, len(psadtBands)+1)
	for _, b := range psadtBands {
		stages = append(stages, calculator.Stage{Label: b.stage, Description: b.description})
	}
	stages = append(stages, calculator.Stage{Label: stageIndeterminate, Description: "Stable or declining PSA"})

	meta := calculator.Metadata{
		ID:    PSADTID,
		Title: "PSA Doubling Time (PSADT)",
		Description: "Estimates the time for serum PSA to double from two to five serial measurements " +
			"using a log-linear least-squares fit. Used to assess progression after prostate cancer treatment.",
		Category:   Category,
		Version:    "1.0",
		Parameters: params,
		Output:     calculator.AtLeast("months", 0),
		Stages:     stages,
		Example:    score.Params{"psa_1": 0.5, "days_1": 0, "psa_2": 1.2, "days_2": 180},
		References: []string{
			"Pound CR, et al. Natural history of progression after PSA elevation following radical prostatectomy. JAMA. 1999;281(17):1591-7.",
			"Freedland SJ, et al. Risk of prostate cancer-specific mortality following biochemical recurrence after radical prostatectomy. JAMA. 2005;294(4):433-9.",
		},
	}
	return calculator.New(meta, computePSADT)
}

func computePSADT(in PSADTInput) (score.Result, error) {
	samples := in.samples()
	sort.Slice(samples, func(i, j int) bool { return samples[i].days < samples[j].days })

	points := make([]regression.Point, len(samples))
	for i, s := range samples {
		points[i] = regression.Point{X: float64(s.days) / daysPerMonth, Y: math.Log(s.psa)}
	}
	line, err := regression.FitLine(points)
	if err != nil {
		return score.Result{}, fmt.Errorf("%w: %w", score.ErrComputation, err)
	}

	first, last := samples[0], samples[len(samples)-1]
	months := points[len(points)-1].X - points[0].X
	details := PSADTDetails{
		SlopePerMonth:      score.Round(line.Slope, 4),
		Intercept:          score.Round(line.Intercept, 4),
		RSquared:           score.Round(line.RSquared, 3),
		Points:             line.N,
		FirstPSA:           first.psa,
		LastPSA:            last.psa,
		ObservationMonths:  score.Round(months, 1),
		PSAVelocityPerYear: score.Round((last.psa-first.psa)/months*12, 2),
	}

	if line.Slope <= 0 {
		return score.Result{
			Value:            score.Text(notApplicable),
			Unit:             "months",
			Stage:            stageIndeterminate,
			StageDescription: "Stable or declining PSA",
			Interpretation: "PSA values are stable or declining over the observation period, so no doubling time " +
				"can be computed. This generally indicates a favorable response; continue routine monitoring.",
			Details: details,
		}, nil
	}

	dt := math.Ln2 / line.Slope
	days := score.Round(dt*daysPerMonth, 1)
	details.DoublingTimeDays = &days
	// Classify the reported value so the stage agrees with what is shown.
	reported := score.Round(dt, 1)
	band := classifyPSADT(reported)
	return score.Result{
		Value:            score.Number(reported),
		Unit:             "months",
		Stage:            band.stage,
		StageDescription: band.description,
		Interpretation:   fmt.Sprintf("PSA doubling time is %.1f months. %s", reported, band.narrative),
		Details:          details,
	}, nil
}

func classifyPSADT(months float64) psadtBand {
	for _, b := range psadtBands {
		if months < b.below {
			return b
		}
	}
	return psadtBands[len(psadtBands)-1]
}
