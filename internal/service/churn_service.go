package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/form"
	"github.com/unclebandit/churn-predictor/internal/metrics"
	"github.com/unclebandit/churn-predictor/internal/model"
	"github.com/unclebandit/churn-predictor/internal/queue"
	"github.com/unclebandit/churn-predictor/internal/repository"
)

// ErrCustomerStoreDisabled is returned by ScoreCustomer when no database is
// configured.
var ErrCustomerStoreDisabled = errors.New("customer store is not configured")

// ChurnService runs form collection, inference and presentation for one
// request. CustomerRepo and Queue are optional.
type ChurnService struct {
	Inference      *InferenceService
	CustomerRepo   repository.CustomerRepositoryInterface
	Queue          queue.Queue
	RetentionTopic string
	Metrics        *metrics.Metrics
	Log            *zap.Logger
	Now            func() time.Time
}

// Predict scores the submitted form. Omitted fields take their defaults.
func (s *ChurnService) Predict(ctx context.Context, in form.Input) (*model.PredictionResult, error) {
	rec, err := form.Collect(in)
	if err != nil {
		s.countError(err)
		return nil, err
	}
	return s.score(ctx, rec, nil)
}

// ScoreCustomer scores a customer already stored in the database.
func (s *ChurnService) ScoreCustomer(ctx context.Context, customerID int) (*model.PredictionResult, error) {
	if s.CustomerRepo == nil {
		return nil, ErrCustomerStoreDisabled
	}
	rec, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(*rec); err != nil {
		s.countError(err)
		return nil, fmt.Errorf("stored customer %d: %w", customerID, err)
	}
	return s.score(ctx, *rec, &customerID)
}

func (s *ChurnService) score(ctx context.Context, rec model.CustomerRecord, customerID *int) (*model.PredictionResult, error) {
	p, err := s.Inference.Predict(ctx, rec)
	if err != nil {
		s.countError(err)
		s.logger().Warn("prediction failed", zap.Error(err))
		return nil, err
	}

	res := Present(p)
	if s.Metrics != nil {
		s.Metrics.Predictions.WithLabelValues(res.Label).Inc()
		if res.HasAdvisory() {
			s.Metrics.Advisories.Inc()
		}
	}
	s.logger().Info("prediction served",
		zap.Float64("probability", p),
		zap.String("label", res.Label),
		zap.Bool("advisory", res.HasAdvisory()))

	if res.HasAdvisory() {
		s.publishRetention(res, customerID)
	}
	return &res, nil
}

// publishRetention hands a high-risk result to the retention desk. Failures
// are logged and counted but never fail the prediction.
func (s *ChurnService) publishRetention(res model.PredictionResult, customerID *int) {
	if s.Queue == nil {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	evt := model.RetentionEvent{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Probability: res.Probability,
		Label:       res.Label,
		Advisory:    res.Advisories[0],
		CreatedAt:   now().UTC(),
	}
	if err := s.Queue.Publish(s.topic(), evt); err != nil {
		if s.Metrics != nil {
			s.Metrics.PublishFailures.Inc()
		}
		s.logger().Error("failed to queue retention event", zap.String("event_id", evt.ID.String()), zap.Error(err))
	}
}

func (s *ChurnService) topic() string {
	if s.RetentionTopic == "" {
		return "retention_offers"
	}
	return s.RetentionTopic
}

func (s *ChurnService) countError(err error) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.InferenceErrors.WithLabelValues(errorReason(err)).Inc()
}

func (s *ChurnService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func errorReason(err error) string {
	var invalid *appErrors.ErrInvalidFieldValue
	switch {
	case errors.As(err, &invalid):
		return "invalid_field"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "inference"
	}
}
