package estimator

import "context"

const (
	DifficultyLow    = "low"
	DifficultyMedium = "medium"
	DifficultyHigh   = "high"
)

type heuristicClient struct{}

// NewHeuristic is used when no model endpoint is configured. It assumes one
// person clears about 2 square meters a minute with a shovel.
func NewHeuristic() Client { return &heuristicClient{} }

func (h *heuristicClient) Estimate(_ context.Context, area int64, wantsSalt bool) *Estimate {
	if area <= 0 {
		return nil
	}

	minutes := int((area + 1) / 2)
	if wantsSalt {
		minutes += int(area/20) + 5
	}
	if minutes < 10 {
		minutes = 10
	}

	est := &Estimate{EstimatedMinutes: minutes}
	switch {
	case area <= 40:
		est.Difficulty = DifficultyLow
		est.ProTip = "Clear early before the snow is packed down by footsteps."
	case area <= 150:
		est.Difficulty = DifficultyMedium
		est.ProTip = "Push snow in one direction and lift less; it saves your back."
	default:
		est.Difficulty = DifficultyHigh
		est.ProTip = "Bring a snow pusher or a second person for areas this size."
	}
	if wantsSalt {
		est.ProTip += " Salt thinly after clearing, not before."
	}
	return est
}
