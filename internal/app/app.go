package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/genrejinn/genrejinn/internal/config"
	"github.com/genrejinn/genrejinn/internal/httpserver"
	"github.com/genrejinn/genrejinn/internal/httpserver/deps"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/pages"
	"github.com/genrejinn/genrejinn/internal/redis"
	"github.com/genrejinn/genrejinn/internal/scheduler"
	"github.com/genrejinn/genrejinn/internal/session"
	"github.com/genrejinn/genrejinn/internal/store"
	filestore "github.com/genrejinn/genrejinn/internal/store/file"
	redisstore "github.com/genrejinn/genrejinn/internal/store/redis"
	"github.com/genrejinn/genrejinn/internal/utils"
	"github.com/genrejinn/genrejinn/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *session.Manager
	autosaver   *scheduler.Autosaver
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Load the paginated book produced by the extraction step.
	book, err := pages.NewLoader(cfg.BookFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load book: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("book loaded",
		logger.String("title", book.Title),
		logger.Int("pages", book.Len()))

	// Pick the persistence backend.
	var backend store.Backend
	var redisClient *goredis.Client
	var pageState session.PageState
	switch cfg.StoreBackend {
	case config.BackendRedis:
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.RedisDialTimeout,
			ReadTimeout:  cfg.RedisReadTimeout,
			WriteTimeout: cfg.RedisWriteTimeout,
			PoolSize:     cfg.RedisPoolSize,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to redis: %v", err)
			os.Exit(1)
		}
		backend = redisstore.New(redisClient, loggerClient)
	default:
		fileBackend, err := filestore.New(cfg.DataDir, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to initialize data dir: %v", err)
			os.Exit(1)
		}
		backend = fileBackend
		pageState = fileBackend
	}

	// Load annotations; migration runs inside Load, and any read failure
	// degrades to an empty store rather than refusing to start.
	st := store.New(backend, loggerClient)
	st.Load(context.Background())

	var mgrOpts []session.Option
	if pageState != nil {
		mgrOpts = append(mgrOpts, session.WithPageState(pageState))
	}
	sessions := session.NewManager(st, book, loggerClient, mgrOpts...)
	autosaver := scheduler.NewAutosaver(sessions, loggerClient, cfg.AutosaveInterval)

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Book:         book,
		Sessions:     sessions,
		Autosaver:    autosaver,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
		autosaver:   autosaver,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting genrejinn v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("genrejinn %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.autosaver.Start(ctx)
	a.logger.Info("autosaver started",
		logger.Duration("interval", a.cfg.AutosaveInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.autosaver.Stop()

	// Final save before the process exits.
	saveCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	a.sessions.Save(saveCtx)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.MustClose(a.redisClient)
	}

	a.logger.Info("✅ genrejinn stopped cleanly")
	return nil
}
