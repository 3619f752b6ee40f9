package estimator

import "context"

// Estimate is a best-effort guess at how long a clearing job takes.
type Estimate struct {
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Difficulty       string `json:"difficulty"`
	ProTip           string `json:"proTip"`
}

// Client returns nil when no estimate is available. Implementations never
// return an error to the caller; upstream failures mean "no estimate".
type Client interface {
	Estimate(ctx context.Context, area int64, wantsSalt bool) *Estimate
}
