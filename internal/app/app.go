package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/marketplace/internal/health"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	"github.com/vladislavdragonenkov/marketplace/internal/service/auctioncron"
	"github.com/vladislavdragonenkov/marketplace/internal/service/cart"
	"github.com/vladislavdragonenkov/marketplace/internal/service/members"
	"github.com/vladislavdragonenkov/marketplace/internal/service/notifier"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/postgres"
	"github.com/vladislavdragonenkov/marketplace/internal/store"
	"github.com/vladislavdragonenkov/marketplace/internal/version"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	MetricsAddr  string
	TickInterval time.Duration
}

// DefaultConfig возвращает базовые настройки: HTTP на :9090, тик аукционов раз в минуту.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:  ":9090",
		TickInterval: time.Minute,
	}
}

// Run собирает сервис и блокируется до отмены контекста.
// Kafka и Postgres подключаются по переменным окружения KAFKA_BROKERS и
// MARKETPLACE_POSTGRES_DSN; без них уведомления пишутся в лог, а журнал
// магазинов живёт в памяти.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	storeMetrics := metrics.NewStoreMetrics()

	// NOTE: Using mock services for development/demo purposes
	// In production, replace with real cart and member service clients
	cartSvc := cart.NewMockService()
	memberSvc := members.NewMockService()

	// Уведомления: Kafka, если настроен, иначе локальная заглушка.
	var storeNotifier domain.Notifier = notifier.NewMockService()
	var kafkaProducer *kafka.Producer
	var kafkaNotifier *kafka.Notifier
	if brokersEnv := os.Getenv("KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			kafkaProducer = producer
			kafkaNotifier = kafka.NewNotifier(producer, logger)
			storeNotifier = kafkaNotifier
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}

	// Журнал магазинов: Postgres, если настроен, иначе память.
	journal := memory.NewJournalRepository()
	var pg *postgres.Store
	if dsn := os.Getenv("MARKETPLACE_POSTGRES_DSN"); dsn != "" {
		pgStore, err := postgres.Open(ctx, dsn)
		if err != nil {
			logger.WithError(err).Warn("failed to connect to postgres, journal stays in memory")
		} else if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Warn("failed to ensure postgres schema, journal stays in memory")
			_ = pgStore.Close()
		} else {
			pg = pgStore
			journal = postgres.NewJournalRepository(pgStore)
			healthHandler.RegisterChecker("postgres", healthcheck.NewPingChecker("postgres", func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return pgStore.Ping(pingCtx)
			}))
			logger.Info("postgres journal initialized")
		}
	}

	registry := store.NewRegistry(store.Deps{
		Notifier: storeNotifier,
		Cart:     cartSvc,
		Members:  memberSvc,
		Journal:  journal,
		Metrics:  storeMetrics,
		Logger:   log.WithField("component", "store"),
	})

	// Планировщик времени аукционов.
	cron := auctioncron.New(registry, cfg.TickInterval, log.WithField("component", "auctioncron"))
	cronDone := make(chan struct{})
	go func() {
		defer close(cronDone)
		cron.Run(ctx)
	}()

	srv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)

	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем сервис")

	<-cronDone
	shutdownHTTP(srv, logger)

	if kafkaNotifier != nil {
		kafkaNotifier.Close()
	}
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}
	if pg != nil {
		if err := pg.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres pool")
		}
	}

	return ctx.Err()
}

// startMetricsServer запускает HTTP-обработчики метрик и health-проб.
func startMetricsServer(addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()
	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
