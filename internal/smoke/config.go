package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Repeat  int           // Calculations submitted per calculator
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every request
}

// ScoreSummary is one row of GET /api/scores.
type ScoreSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type scoreList struct {
	Scores []ScoreSummary `json:"scores"`
	Total  int            `json:"total"`
}

// Stage is one declared classification band.
type Stage struct {
	Label string `json:"stage"`
}

// Metadata is the subset of GET /api/scores/{id} the smoke run needs.
type Metadata struct {
	ID      string         `json:"id"`
	Stages  []Stage        `json:"stages"`
	Example map[string]any `json:"example"`
}

// HasStage reports whether label is one of the declared stages.
func (m Metadata) HasStage(label string) bool {
	for _, s := range m.Stages {
		if s.Label == label {
			return true
		}
	}
	return false
}

// Result is the subset of a calculation response the smoke run checks.
type Result struct {
	Value any    `json:"result"`
	Stage string `json:"stage"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Stats holds smoke run statistics.
type Stats struct {
	Calculators int
	Submitted   int
	Succeeded   int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Failures    []string
}
