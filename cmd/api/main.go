package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MendeIT/django-blog-project/internal/config"
	"github.com/MendeIT/django-blog-project/internal/db"
	"github.com/MendeIT/django-blog-project/internal/logging"
	"github.com/MendeIT/django-blog-project/internal/pagecache"
	"github.com/MendeIT/django-blog-project/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	args            []string
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		args:            os.Args[1:],
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat, nil)

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		log.Error().Err(err).Msg("postgres connection failed")
	}

	rdb := pingRedis(deps.connectRedis(cfg))

	if len(deps.args) > 0 {
		var q db.Querier
		if pg != nil {
			q = pg
		}
		if err := runCommand(context.Background(), deps.args[0], q, rdb); err != nil {
			log.Error().Err(err).Str("command", deps.args[0]).Msg("command failed")
		} else {
			log.Info().Str("command", deps.args[0]).Msg("command finished")
		}
		closeResources(pg, rdb)
		return
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, signals, nil); err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}
}

// runCommand handles the maintenance subcommands: migrate applies the
// schema and clear-cache drops every cached page.
func runCommand(ctx context.Context, name string, q db.Querier, rdb *redis.Client) error {
	switch name {
	case "migrate":
		if q == nil {
			return fmt.Errorf("migrate: no database connection")
		}
		return db.ApplySchema(ctx, q)
	case "clear-cache":
		return pagecache.New(rdb).Reset()
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

// pingRedis drops an unreachable client so the page cache and the post
// stream fall back to in-process mode.
func pingRedis(rdb *redis.Client) *redis.Client {
	if rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-process cache")
		_ = rdb.Close()
		return nil
	}
	return rdb
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	var database db.Querier
	if pg != nil {
		database = pg
	}
	srv := server.NewServer(cfg, database, rdb)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	_ = srv.Stream.Close()
	closeResources(pg, rdb)
	return nil
}

func closeResources(pg *pgxpool.Pool, rdb *redis.Client) {
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
