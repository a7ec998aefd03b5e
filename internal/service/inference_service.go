package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/unclebandit/churn-predictor/internal/classifier"
	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/metrics"
	"github.com/unclebandit/churn-predictor/internal/model"
)

// InferenceService turns a customer record into a churn probability using a
// classifier that was loaded once at startup.
type InferenceService struct {
	classifier classifier.Classifier
	timeout    time.Duration
	metrics    *metrics.Metrics
}

// NewInferenceService panics on a nil classifier: the process cannot serve
// anything without one.
func NewInferenceService(c classifier.Classifier, timeout time.Duration, m *metrics.Metrics) *InferenceService {
	if c == nil {
		panic("service: nil classifier")
	}
	return &InferenceService{classifier: c, timeout: timeout, metrics: m}
}

// ModelInfo describes the loaded classifier.
func (s *InferenceService) ModelInfo() model.ModelInfo {
	return s.classifier.Info()
}

// Predict scores a fully populated record.
func (s *InferenceService) Predict(ctx context.Context, rec model.CustomerRecord) (float64, error) {
	return s.PredictFeatures(ctx, rec.Features())
}

// PredictFeatures scores a raw feature row. Rows that do not match the
// model's columns fail with ErrInference before the classifier is called.
func (s *InferenceService) PredictFeatures(ctx context.Context, features model.Features) (float64, error) {
	if err := s.checkSchema(features); err != nil {
		return 0, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type answer struct {
		p   float64
		err error
	}
	done := make(chan answer, 1)
	start := time.Now()
	go func() {
		p, err := s.classifier.PredictProbability(ctx, features)
		done <- answer{p, err}
	}()

	select {
	case <-ctx.Done():
		return 0, appErrors.WrapInferenceError(ctx.Err(), "classifier did not answer in time")
	case a := <-done:
		if s.metrics != nil {
			s.metrics.InferenceDuration.Observe(time.Since(start).Seconds())
		}
		if a.err != nil {
			var inferr *appErrors.ErrInference
			if errors.As(a.err, &inferr) {
				return 0, a.err
			}
			return 0, appErrors.WrapInferenceError(a.err, "classifier failed")
		}
		if math.IsNaN(a.p) || a.p < 0 || a.p > 1 {
			return 0, appErrors.NewInferenceError("", fmt.Sprintf("classifier returned %v, outside [0,1]", a.p))
		}
		return a.p, nil
	}
}

func (s *InferenceService) checkSchema(features model.Features) error {
	schema, ok := s.classifier.(classifier.Schema)
	if !ok {
		for _, col := range model.Columns {
			if v, ok := features[col]; !ok || v == nil {
				return appErrors.NewInferenceError(col, "missing column")
			}
		}
		return nil
	}

	for _, col := range schema.Columns() {
		v, ok := features[col.Name]
		if !ok || v == nil {
			return appErrors.NewInferenceError(col.Name, "missing column")
		}
		switch col.Type {
		case classifier.TypeNumeric:
			switch v.(type) {
			case int, int32, int64, float32, float64, json.Number:
			default:
				return appErrors.NewInferenceError(col.Name, fmt.Sprintf("expected a number, got %T", v))
			}
		case classifier.TypeCategorical:
			if _, ok := v.(string); !ok {
				return appErrors.NewInferenceError(col.Name, fmt.Sprintf("expected a category string, got %T", v))
			}
		}
	}
	return nil
}
