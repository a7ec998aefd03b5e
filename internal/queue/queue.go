package queue

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers in-process with per-job retry. Used when no broker
// is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	log      *zap.Logger

	MaxRetries int
	Backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		log:        log,
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Topic: topic, Payload: payload, MaxRetries: q.MaxRetries}
		go q.processJob(handler, job)
	}
	return nil
}

// processJob retries a failing handler with linear backoff, then drops the job.
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for {
		err := handler(job.Payload)
		if err == nil {
			q.log.Debug("job processed", zap.String("topic", job.Topic))
			return
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			q.log.Error("job permanently failed",
				zap.String("topic", job.Topic),
				zap.Int("attempts", job.RetryCount),
				zap.Error(err))
			return
		}
		q.log.Warn("job failed, retrying",
			zap.String("topic", job.Topic),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err))

		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
