package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puzdesk/internal/app"
	"puzdesk/internal/db"
	"puzdesk/internal/transport"
	"puzdesk/sql/schema"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	port   string
	dbPath string
	isProd bool
)

var mainCommand = &cobra.Command{
	Use:   "server",
	Short: "Serve stored crosswords over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	mainCommand.Flags().StringVarP(&port, "port", "p", envOr("PORT", "8080"), "listen port")
	mainCommand.Flags().StringVar(&dbPath, "db", envOr("DB_PATH", "puzdesk.db"), "SQLite database path")
	mainCommand.Flags().BoolVar(&isProd, "production", os.Getenv("ENV") == "production", "use production logging")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if isProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	dbConn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	// Run migrations from embedded FS
	goose.SetBaseFS(schema.Migrations)
	if err := goose.Up(dbConn, "."); err != nil {
		return err
	}

	queries := db.New(dbConn)
	service := app.NewService(queries, dbConn, logger)
	defer service.Shutdown()
	server := transport.NewServer(service, dbConn)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+port), zap.String("db", dbPath))
		errCh <- httpServer.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
	case sig := <-osSignals:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
