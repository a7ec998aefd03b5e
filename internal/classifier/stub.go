package classifier

import (
	"context"

	"github.com/unclebandit/churn-predictor/internal/model"
)

// Stub is a deterministic classifier for tests and local runs without an
// artifact. Fn, when set, wins over Probability.
type Stub struct {
	Probability float64
	Fn          func(model.Features) (float64, error)
}

// Fixed returns a stub that always answers p.
func Fixed(p float64) *Stub {
	return &Stub{Probability: p}
}

func (s *Stub) PredictProbability(ctx context.Context, features model.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.Fn != nil {
		return s.Fn(features)
	}
	return s.Probability, nil
}

func (s *Stub) Info() model.ModelInfo {
	return model.ModelInfo{Name: "stub", Version: "test", Kind: "stub"}
}
