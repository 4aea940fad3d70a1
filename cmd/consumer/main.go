package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"

	"ITOpsDashboard/internal/config"
	"ITOpsDashboard/internal/consumer"
	"ITOpsDashboard/internal/repository"
	"ITOpsDashboard/pkg/logger"
	"ITOpsDashboard/pkg/notify"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env).With(slog.String("component", "consumer"))

	// подключаемся к NATS
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("it-ops-consumer"))
	if err != nil {
		fatal(log, "failed to connect to NATS", err)
	}
	defer nc.Close()

	// подключаемся к ClickHouse (база должна существовать)
	db, err := sql.Open("clickhouse", cfg.ClickHouseDSN)
	if err != nil {
		fatal(log, "failed to connect to ClickHouse", err)
	}
	defer func() { _ = db.Close() }()

	// применяем миграции ClickHouse с помощью golang-migrate
	driver, err := clickhouse.WithInstance(db, &clickhouse.Config{})
	if err != nil {
		fatal(log, "failed to create ClickHouse migrate driver", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		strings.TrimSuffix(cfg.MigrationsPath, "/")+"/clickhouse", "clickhouse", driver,
	)
	if err != nil {
		fatal(log, "failed to create ClickHouse migrate instance", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatal(log, "failed to apply ClickHouse migrations", err)
	}

	// создаём репозиторий и консьюмера
	repo := repository.NewChangeEventRepo(db, log)
	cons := consumer.NewConsumer(repo, log, cfg.BatchSize)

	// неполный пакет сбрасывается по таймеру
	runCtx, stopRun := context.WithCancel(context.Background())
	flushDone := make(chan struct{})
	go func() {
		defer close(flushDone)
		cons.Run(runCtx, cfg.FlushInterval)
	}()

	// HTTP-сервер для healthz и readyz
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil || !nc.IsConnected() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	healthSrv := &http.Server{Addr: ":" + cfg.ConsumerPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("starting health server", slog.String("port", cfg.ConsumerPort))
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "health server failed", err)
		}
	}()

	// подписываемся на все ресурсы ленты изменений
	subject := notify.Wildcard(cfg.NATSSubject)
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		resource, _ := notify.Resource(cfg.NATSSubject, msg.Subject)
		if err := cons.HandleMessage(context.Background(), resource, msg.Data); err != nil {
			log.Error("failed to handle message", slog.String("subject", msg.Subject), logger.Err(err))
		}
	})
	if err != nil {
		fatal(log, "failed to subscribe", err)
	}
	log.Info("subscribed", slog.String("subject", subject))

	// ждём сигнала завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down consumer")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := healthSrv.Shutdown(ctx); err != nil {
		log.Warn("health server shutdown failed", logger.Err(err))
	}

	// отписываемся и сбрасываем оставшиеся события
	if err := sub.Unsubscribe(); err != nil {
		log.Warn("failed to unsubscribe", logger.Err(err))
	}
	stopRun()
	<-flushDone
	if err := cons.Flush(ctx); err != nil {
		log.Error("failed to flush consumer events", logger.Err(err))
	}
	log.Info("consumer stopped")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Err(err))
	os.Exit(1)
}
