package smoke

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	maxReportedFailures     = 20
	PercentageMultiplier    = 100
)

// unknownScoreID must never be registered by the service.
const unknownScoreID = "nonexistent_score"
