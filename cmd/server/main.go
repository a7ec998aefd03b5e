// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/churn-predictor/internal/classifier"
	"github.com/unclebandit/churn-predictor/internal/config"
	"github.com/unclebandit/churn-predictor/internal/controller"
	"github.com/unclebandit/churn-predictor/internal/db"
	"github.com/unclebandit/churn-predictor/internal/handler"
	"github.com/unclebandit/churn-predictor/internal/logger"
	"github.com/unclebandit/churn-predictor/internal/metrics"
	"github.com/unclebandit/churn-predictor/internal/queue"
	"github.com/unclebandit/churn-predictor/internal/repository"
	"github.com/unclebandit/churn-predictor/internal/service"
)

func main() {
	foundEnv := config.LoadDotEnv()
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer log.Sync()
	if !foundEnv {
		log.Info("no .env file found, relying on OS environment variables")
	}

	// The model is loaded once and shared read-only by every request.
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		log.Fatal("cannot serve predictions", zap.Error(err))
	}
	info := model.Info()
	log.Info("model loaded",
		zap.String("path", cfg.ModelPath),
		zap.String("name", info.Name),
		zap.String("version", info.Version),
		zap.String("kind", info.Kind))

	m := metrics.New(prometheus.DefaultRegisterer)
	inference := service.NewInferenceService(model, cfg.InferenceTimeout, m)

	churnService := &service.ChurnService{
		Inference:      inference,
		RetentionTopic: cfg.RetentionQueue,
		Metrics:        m,
		Log:            log,
	}

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database unavailable", zap.Error(err))
		}
		defer database.Close()
		churnService.CustomerRepo = &repository.CustomerRepository{DB: database}
		log.Info("connected to database")
	} else {
		log.Info("DATABASE_URL not set, stored-customer scoring disabled")
	}

	var brokerLost <-chan error
	if cfg.AMQPURL != "" {
		broker, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			log.Fatal("rabbitmq unavailable", zap.Error(err))
		}
		defer broker.Close()
		churnService.Queue = broker
		brokerLost = broker.Closed()
		log.Info("publishing retention events to rabbitmq", zap.String("queue", cfg.RetentionQueue))
	} else {
		q := queue.NewInMemoryQueue(log)
		worker := service.NewRetentionWorker(service.LogDispatcher(log), log)
		if err := q.Subscribe(cfg.RetentionQueue, worker.Handle); err != nil {
			log.Fatal("failed to start retention subscriber", zap.Error(err))
		}
		churnService.Queue = q
		log.Info("AMQP_URL not set, retention events handled in-process")
	}

	churnController := &controller.ChurnController{
		ChurnService: churnService,
		Log:          log,
	}
	router := controller.NewRouter(churnController, handler.NewHealthHandler(info), promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case err := <-brokerLost:
			return err
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
	log.Info("server stopped")
}
