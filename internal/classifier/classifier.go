// Package classifier holds the churn models the inference service can call.
package classifier

import (
	"context"

	"github.com/unclebandit/churn-predictor/internal/model"
)

// Classifier returns the probability of the churn class for one feature row.
// Implementations must be safe for concurrent use.
type Classifier interface {
	PredictProbability(ctx context.Context, features model.Features) (float64, error)
	Info() model.ModelInfo
}

// Schema is implemented by classifiers that declare the columns they need,
// letting callers reject malformed rows before inference.
type Schema interface {
	Columns() []Column
}

const (
	TypeNumeric     = "numeric"
	TypeCategorical = "categorical"
)

// Column is one input column a model was trained on.
type Column struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Categories []string `json:"categories,omitempty"`
}
