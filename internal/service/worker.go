package service

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/churn-predictor/internal/model"
)

// RetentionWorker processes retention events taken off the queue.
type RetentionWorker struct {
	Dispatch func(evt model.RetentionEvent) error
	Log      *zap.Logger
}

// Constructor
func NewRetentionWorker(dispatch func(evt model.RetentionEvent) error, log *zap.Logger) *RetentionWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetentionWorker{Dispatch: dispatch, Log: log}
}

// Handle is a queue handler. Payloads that cannot be decoded are dropped
// (nil error) so they are not retried forever.
func (w *RetentionWorker) Handle(payload any) error {
	evt, err := DecodeRetentionEvent(payload)
	if err != nil {
		w.Log.Warn("dropping undecodable retention event", zap.Error(err))
		return nil
	}
	if err := w.Dispatch(evt); err != nil {
		return fmt.Errorf("dispatch retention event %s: %w", evt.ID, err)
	}
	return nil
}

// DecodeRetentionEvent accepts the in-memory form (the struct) and the
// broker form (JSON bytes).
func DecodeRetentionEvent(payload any) (model.RetentionEvent, error) {
	switch p := payload.(type) {
	case model.RetentionEvent:
		return p, nil
	case *model.RetentionEvent:
		if p == nil {
			return model.RetentionEvent{}, fmt.Errorf("nil retention event")
		}
		return *p, nil
	case []byte:
		var evt model.RetentionEvent
		if err := json.Unmarshal(p, &evt); err != nil {
			return model.RetentionEvent{}, fmt.Errorf("decode retention event: %w", err)
		}
		return evt, nil
	default:
		return model.RetentionEvent{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}

// LogDispatcher hands events to the retention desk by logging them.
func LogDispatcher(log *zap.Logger) func(evt model.RetentionEvent) error {
	return func(evt model.RetentionEvent) error {
		fields := []zap.Field{
			zap.String("event_id", evt.ID.String()),
			zap.Float64("probability", evt.Probability),
			zap.String("advisory", evt.Advisory),
			zap.String("script", OfferScript(evt)),
			zap.Time("created_at", evt.CreatedAt),
		}
		if evt.CustomerID != nil {
			fields = append(fields, zap.Int("customer_id", *evt.CustomerID))
		}
		log.Info("retention offer requested", fields...)
		return nil
	}
}
