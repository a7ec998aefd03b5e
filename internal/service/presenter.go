package service

import (
	"fmt"

	"github.com/unclebandit/churn-predictor/internal/model"
)

const (
	// ChurnThreshold splits the binary label.
	ChurnThreshold = 0.5
	// AdvisoryThreshold adds the retention advisory. It is independent of
	// ChurnThreshold, so 0.5 <= p < 0.6 is Churn without an advisory.
	AdvisoryThreshold = 0.6

	HighRiskAdvisory = "High churn risk: consider retention offers or feedback calls."
	MessageStay      = "Customer is likely to stay."
	MessageChurn     = "Customer is likely to churn."
)

// Present maps a churn probability to what the operator sees.
func Present(p float64) model.PredictionResult {
	res := model.PredictionResult{
		Probability: p,
		Percentage:  FormatPercentage(p),
		Advisories:  []string{},
	}

	if p >= ChurnThreshold {
		res.Label = model.LabelChurn
		res.Indicator = model.IndicatorError
		res.Message = MessageChurn
	} else {
		res.Label = model.LabelNotChurn
		res.Indicator = model.IndicatorSuccess
		res.Message = MessageStay
		res.Celebrate = true
	}

	if p >= AdvisoryThreshold {
		res.Advisories = append(res.Advisories, HighRiskAdvisory)
	}
	return res
}

// FormatPercentage renders p as a percentage with two decimals, e.g. "82.00%".
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
