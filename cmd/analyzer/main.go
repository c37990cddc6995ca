// Command analyzer запускает веб-приложение анализатора страниц.
//
// Хранилище выбирается по конфигурации: PostgreSQL при заданном DATABASE_URL,
// файл при заданном FILE_STORAGE_PATH, иначе память процесса.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempizhere/pageanalyzer/internal/app"
	"github.com/tempizhere/pageanalyzer/internal/config"
	"github.com/tempizhere/pageanalyzer/internal/fetcher"
	"github.com/tempizhere/pageanalyzer/internal/flash"
	analyzergrpc "github.com/tempizhere/pageanalyzer/internal/grpc"
	"github.com/tempizhere/pageanalyzer/internal/log"
	"github.com/tempizhere/pageanalyzer/internal/render"
	"github.com/tempizhere/pageanalyzer/internal/repository"
	"github.com/tempizhere/pageanalyzer/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// storage хранилище и, если используется PostgreSQL, подключение к базе
type storage struct {
	repo repository.Repository
	db   repository.Database
}

func (s storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func newStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage, error) {
	switch {
	case cfg.DatabaseDSN != "":
		db, err := app.NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return storage{}, err
		}
		repo, err := repository.NewPostgresRepository(db, logger)
		if err != nil {
			_ = db.Close()
			return storage{}, err
		}
		logger.Info("Using PostgreSQL storage")
		return storage{repo: repo, db: db}, nil
	case cfg.FileStoragePath != "":
		repo, err := repository.NewFileRepository(cfg.FileStoragePath, logger)
		if err != nil {
			return storage{}, err
		}
		logger.Info("Using file storage", zap.String("path", cfg.FileStoragePath))
		return storage{repo: repo}, nil
	default:
		logger.Info("Using in-memory storage")
		return storage{repo: repository.NewMemoryRepository()}, nil
	}
}

func newService(st storage, cfg *config.Config, logger *zap.Logger) *service.Service {
	f := fetcher.New(fetcher.Config{UserAgent: cfg.UserAgent, Timeout: cfg.CheckTimeout}, logger)
	return service.NewService(st.repo, f, logger)
}

func newHandler(svc *service.Service, st storage, cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	a := app.NewApp(svc, st.db, renderer, flash.NewStore(cfg.SessionSecret), logger)
	return app.NewRouter(a, cfg.TrustedSubnet), nil
}

// serve запускает HTTP и, если задан адрес, gRPC сервер и ждёт отмены ctx
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	svc := newService(st, cfg, logger)
	handler, err := newHandler(svc, st, cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 2)

	srv := &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP server started", zap.String("addr", cfg.RunAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			cancel()
		}
	}()

	var stopGRPC func()
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			cancel()
			_ = srv.Close()
			return fmt.Errorf("listen gRPC: %w", err)
		}
		gs := analyzergrpc.NewGRPCServer(analyzergrpc.NewServer(svc, logger), cfg.TrustedSubnet, logger)
		go func() {
			logger.Info("gRPC server started", zap.String("addr", cfg.GRPCAddr))
			if err := gs.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
				cancel()
			}
		}()
		stopGRPC = gs.GracefulStop
	}

	<-ctx.Done()
	logger.Info("Shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if stopGRPC != nil {
		stopGRPC()
	}
	logger.Info("Shutdown complete")

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
