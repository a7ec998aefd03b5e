package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	LabelChurn    = "Churn"
	LabelNotChurn = "Not Churn"

	IndicatorSuccess = "success"
	IndicatorError   = "error"
)

// PredictionResult is what a single prediction shows to the operator.
// It is built per request and never stored.
type PredictionResult struct {
	Probability float64  `json:"probability"`
	Percentage  string   `json:"percentage"`
	Label       string   `json:"label"`
	Indicator   string   `json:"indicator"`
	Message     string   `json:"message"`
	Advisories  []string `json:"advisories"`
	Celebrate   bool     `json:"celebrate"`
}

// HasAdvisory reports whether the result carries at least one advisory.
func (p PredictionResult) HasAdvisory() bool {
	return len(p.Advisories) > 0
}

// RetentionEvent is handed to the retention desk for high-risk customers.
type RetentionEvent struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  *int      `json:"customer_id,omitempty"`
	Probability float64   `json:"probability"`
	Label       string    `json:"label"`
	Advisory    string    `json:"advisory"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModelInfo describes the loaded classifier.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
}
