package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/wiktapi/internal/adapter/postgres"
	"github.com/heartmarshall/wiktapi/internal/adapter/postgres/words"
	"github.com/heartmarshall/wiktapi/internal/adapter/redis/wordcache"
	"github.com/heartmarshall/wiktapi/internal/config"
	"github.com/heartmarshall/wiktapi/internal/service/dictionary"
	"github.com/heartmarshall/wiktapi/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to the
// store (and the optional cache), and serves HTTP until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := dictionary.NewService(logger, words.New(pool))
	health := rest.NewHealthHandler(pool, BuildVersion())

	if cfg.Cache.Enabled() {
		rdb, err := wordcache.NewClient(ctx, cfg.Cache)
		if err != nil {
			// The cache is an optimisation; serve without it.
			logger.Warn("word cache disabled", slog.String("error", err.Error()))
		} else {
			defer rdb.Close()
			cache := wordcache.New(rdb, cfg.Cache.TTL, cfg.Cache.KeyPrefix)
			svc.SetCache(cache)
			health.SetCache(cache)
			logger.Info("word cache enabled", slog.String("addr", cfg.Cache.Addr))
		}
	}

	handler := NewRouter(logger, cfg.CORS, rest.NewDictionaryHandler(svc, logger), health)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, logger, srv, cfg.Server)
}

func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, cfg config.ServerConfig) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
