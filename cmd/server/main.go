package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-api/internal/config"
	"notes-api/internal/db"
	"notes-api/internal/handler"
	"notes-api/internal/repository"
	"notes-api/internal/service"
	"notes-api/pkg/logger"
	"notes-api/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	serviceName       = "notes-api"
	poolStatsInterval = 15 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port, driver string

	cmd := &cobra.Command{
		Use:          serviceName,
		Short:        "HTTP service exposing CRUD operations over notes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				os.Setenv("APP_PORT", port)
			}
			if driver != "" {
				os.Setenv("DB_DRIVER", driver)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides APP_PORT)")
	cmd.Flags().StringVar(&driver, "driver", "", "datastore driver: mysql or couch (overrides DB_DRIVER)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(serviceName, cfg.Logging.Level, cfg.Logging.Format)
	m := metrics.New("notes", prometheus.DefaultRegisterer)

	repo, closeRepo, err := openRepository(ctx, cfg, log, m)
	if err != nil {
		log.WithError(err).Error("failed to open datastore")
		return err
	}
	defer closeRepo()

	noteService := service.NewNoteService(repo)
	noteHandler := handler.NewNoteHandler(noteService, log)

	router := handler.NewRouter(handler.RouterDeps{
		Notes:          noteHandler,
		Logger:         log,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		CORS:           cfg.CORS,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).WithField("env", cfg.Server.Env).WithField("driver", cfg.Database.Driver).
			Info("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("server failed to start")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (repository.NoteRepository, func(), error) {
	dbCfg := cfg.Database

	switch dbCfg.Driver {
	case config.DriverCouch:
		client, created, err := db.OpenCouch(ctx, db.CouchConfig{
			Host:     dbCfg.Host,
			Port:     dbCfg.Port,
			User:     dbCfg.User,
			Password: dbCfg.Password,
			Database: dbCfg.Name,
		})
		if err != nil {
			return nil, nil, err
		}
		if created {
			log.WithField("database", dbCfg.Name).Info("created CouchDB database")
		}
		log.WithField("host", dbCfg.Host).WithField("port", dbCfg.Port).Info("connected to CouchDB")

		return repository.NewCouchNoteRepository(client, dbCfg.Name), func() { client.Close() }, nil

	default:
		sqlDB, err := db.OpenMySQL(ctx, db.MySQLConfig{
			Host:            dbCfg.Host,
			Port:            dbCfg.Port,
			User:            dbCfg.User,
			Password:        dbCfg.Password,
			Database:        dbCfg.Name,
			MaxOpenConns:    dbCfg.MaxOpenConns,
			MaxIdleConns:    dbCfg.MaxIdleConns,
			ConnMaxLifetime: dbCfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		if dbCfg.AutoCreate {
			if err := repository.EnsureSchema(ctx, sqlDB); err != nil {
				sqlDB.Close()
				return nil, nil, err
			}
		}
		log.WithField("host", dbCfg.Host).WithField("port", dbCfg.Port).Info("connected to MySQL")

		go m.WatchDBPool(ctx, sqlDB, poolStatsInterval)

		return repository.NewMySQLNoteRepository(sqlDB), func() { sqlDB.Close() }, nil
	}
}
