package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/churn-predictor/internal/config"
	"github.com/unclebandit/churn-predictor/internal/logger"
	"github.com/unclebandit/churn-predictor/internal/model"
	"github.com/unclebandit/churn-predictor/internal/queue"
	"github.com/unclebandit/churn-predictor/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer log.Sync()

	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required")
	}

	broker, err := queue.DialAMQP(cfg.AMQPURL, log)
	if err != nil {
		log.Fatal("rabbitmq unavailable", zap.Error(err))
	}
	defer broker.Close()

	if err := register(broker, cfg.RetentionQueue, service.LogDispatcher(log), log); err != nil {
		log.Fatal("failed to register consumer", zap.Error(err))
	}

	log.Info("worker running, waiting for retention events", zap.String("queue", cfg.RetentionQueue))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	if err := wait(stop, broker.Closed()); err != nil {
		log.Fatal("worker lost its broker", zap.Error(err))
	}
	log.Info("worker stopped")
}

// wait blocks until a shutdown signal (nil) or a broker failure (the error).
func wait(stop <-chan os.Signal, lost <-chan error) error {
	select {
	case <-stop:
		return nil
	case err := <-lost:
		return err
	}
}

// register attaches a retention worker to topic on q.
func register(q queue.Queue, topic string, dispatch func(model.RetentionEvent) error, log *zap.Logger) error {
	worker := service.NewRetentionWorker(dispatch, log)
	return q.Subscribe(topic, worker.Handle)
}
