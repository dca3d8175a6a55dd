// Package app initializes and runs the zkid server process: it wires the
// group parameters, the challenge store, the user directory, the protocol
// engine, the token issuer, the audit event bus, and the HTTP API, then
// runs the server until it is asked to shut down.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkarasev/zkid/internal/auth"
	"github.com/dkarasev/zkid/internal/authfacade"
	"github.com/dkarasev/zkid/internal/challengestore"
	"github.com/dkarasev/zkid/internal/config"
	"github.com/dkarasev/zkid/internal/dbmanager"
	"github.com/dkarasev/zkid/internal/events"
	"github.com/dkarasev/zkid/internal/group"
	"github.com/dkarasev/zkid/internal/httpapi"
	"github.com/dkarasev/zkid/internal/logging"
	"github.com/dkarasev/zkid/internal/protocol"
	"github.com/dkarasev/zkid/internal/userdirectory"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
	rdb    *redis.Client
}

func New(ctx context.Context, c *config.Config) (*App, error) {
	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	g := group.Default()

	db, err := dbmanager.OpenAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	directory := userdirectory.NewPostgresDirectory(db)

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	store := challengestore.NewRedisStore(rdb)

	pool := protocol.NewWorkerPool(c.WorkerPoolSize, c.WorkerQueueCapacity)
	engine := protocol.NewEngine(g, store, pool, logger)

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	publisher := events.NewPublisher(rdb, c.AuditEventsChannel, logger)

	facade := authfacade.New(g, directory, engine, issuer, publisher, c.ChallengeTTL, logger)
	handler := httpapi.NewServer(facade, logger)

	return &App{
		config: c,
		logger: logger,
		rdb:    rdb,
		server: &http.Server{
			Addr:         c.EndpointAddrHTTP,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.logger.Info(ctx, "starting server", "addr", a.config.EndpointAddrHTTP)
	a.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			a.logger.Error(ctx, "server exited with error", "err", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error(ctx, "graceful shutdown failed", "err", err)
		}
		_ = a.rdb.Close()
	}
}
