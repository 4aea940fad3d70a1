package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/rs/cors"

	"ITOpsDashboard/internal/config"
	"ITOpsDashboard/internal/repository"
	"ITOpsDashboard/internal/service"
	externalHttp "ITOpsDashboard/internal/transport/http"
	"ITOpsDashboard/pkg/cache"
	"ITOpsDashboard/pkg/logger"
	"ITOpsDashboard/pkg/notify"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)
	log.Info("starting it-ops dashboard", slog.String("addr", cfg.HTTPAddr))

	// подключаем Postgres
	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		fatal(log, "failed to connect to Postgres", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		fatal(log, "failed to ping Postgres", err)
	}

	// применяем миграции Postgres с помощью golang-migrate
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		fatal(log, "failed to create migrate driver", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		strings.TrimSuffix(cfg.MigrationsPath, "/")+"/postgres", "postgres", driver,
	)
	if err != nil {
		fatal(log, "failed to create migrate instance", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatal(log, "failed to apply migrations", err)
	}

	// подключаем Redis
	cacheClient := cache.NewRedisClient(&redis.Options{Addr: cfg.RedisAddr})

	// подключаем NATS
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("it-ops-app"))
	if err != nil {
		fatal(log, "failed to connect to NATS", err)
	}
	publisher := notify.NewPublisher(nc, cfg.NATSSubject)

	// создаем репозитории и сервисы
	equipment := service.NewEquipmentService(repository.NewEquipmentRepository(db), cacheClient, publisher, log, cfg.RedisTTL)
	services := externalHttp.Services{
		Equipment: equipment,
		Tasks:     service.NewTaskService(repository.NewTaskRepository(db), publisher, log, cfg.TaskBoards),
		Checklist: service.NewChecklistService(repository.NewChecklistRepository(db), publisher, log),
		Tickets:   service.NewTicketService(repository.NewTicketRepository(db), publisher, log),
		Insured:   service.NewInsuredService(repository.NewInsuredRepository(db), publisher, log),
	}

	// лента изменений: сброс кэша и раздача SSE-подписчикам, включая изменения других экземпляров
	hub := notify.NewHub()
	sub, err := nc.Subscribe(notify.Wildcard(cfg.NATSSubject), func(msg *nats.Msg) {
		resource, ok := notify.Resource(cfg.NATSSubject, msg.Subject)
		if !ok {
			return
		}
		equipment.HandleChange(context.Background(), resource)
		hub.Broadcast(resource, msg.Data)
	})
	if err != nil {
		fatal(log, "failed to subscribe to change feed", err)
	}

	ready := func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		return cacheClient.Ping(ctx)
	}

	// настраиваем HTTP маршруты и middleware
	r := mux.NewRouter()
	r.Use(externalHttp.LoggingMiddleware(log))
	r.Use(externalHttp.RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	h := externalHttp.NewHandler(services, hub, ready, log)
	h.RegisterRoutes(r)

	// CORS оборачивает весь роутер, иначе preflight OPTIONS не дойдёт до обработчика
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	// базовый контекст запросов отменяется при остановке, чтобы SSE-потоки не держали Shutdown
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()
	srvHttp := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	// запуск сервера в горутине
	go func() {
		log.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srvHttp.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server failed", err)
		}
	}()

	// ожидаем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	stopStreams()
	if err := srvHttp.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", logger.Err(err))
	}
	if err := sub.Unsubscribe(); err != nil {
		log.Warn("failed to unsubscribe from change feed", logger.Err(err))
	}
	if err := cacheClient.Close(); err != nil {
		log.Warn("failed to close Redis client", logger.Err(err))
	}
	// корректно дренируем NATS-соединение, чтобы отправить оставшиеся уведомления
	if err := nc.Drain(); err != nil {
		log.Warn("failed to drain NATS connection", logger.Err(err))
	}
	log.Info("server exited properly")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Err(err))
	os.Exit(1)
}
