package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/gradebook/internal/cache"
	"github.com/pavelanni/gradebook/internal/gradebook"
	"github.com/pavelanni/gradebook/internal/handler"
	appI18n "github.com/pavelanni/gradebook/internal/i18n"
	"github.com/pavelanni/gradebook/internal/metrics"
	"github.com/pavelanni/gradebook/internal/model"
	"github.com/pavelanni/gradebook/internal/store"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradebook",
		Short: "Grading records backend",
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), seedCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `gradebook --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addStoreFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db-driver", store.DriverSQLite, "Database driver (sqlite, postgres)")
	f.String("db", "gradebook.db", "SQLite database path or PostgreSQL connection string")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	addStoreFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":3000", "HTTP listen address")
	f.String("default-policy", string(model.PolicyFixed), "Grading policy for scopes without one (fixed, range)")
	f.StringP("lang", "l", "en", "Default language for messages (en, th)")
	f.String("cache", cache.KindNone, "Scope grading cache (none, memory, redis)")
	f.String("redis-addr", "localhost:6379", "Redis address for --cache=redis")
	f.Duration("cache-ttl", 5*time.Minute, "Scope grading cache TTL (0 = until invalidated)")
	f.Int("workers", 0, "Concurrent grade computations per request (0 = GOMAXPROCS)")
	f.String("seed", "", "Reference data JSON file to import at startup")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE:  runMigrate,
	}
	addStoreFlags(cmd)
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import reference data (years, semesters, grades, subjects, score types)",
		RunE:  runSeed,
	}
	addStoreFlags(cmd)
	cmd.Flags().String("seed", "", "Reference data JSON file (required)")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gradebook")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gradebook")
	v.AddConfigPath("/etc/gradebook")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func openStore(v *viper.Viper) (*store.Store, error) {
	db, err := store.New(v.GetString("db-driver"), v.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// store.New applies the schema.
	db, err := openStore(v)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("schema up to date", "driver", v.GetString("db-driver"))
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := openStore(v)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := gradebook.New(db, nil, gradebook.Config{})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return seedReference(cmd.Context(), svc, db, v.GetString("seed"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(v)
	if err != nil {
		return err
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gradingCache, err := cache.New(ctx, cache.Options{
		Kind:      v.GetString("cache"),
		RedisAddr: v.GetString("redis-addr"),
		TTL:       v.GetDuration("cache-ttl"),
	})
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer gradingCache.Close()

	svc, err := gradebook.New(db, gradingCache, gradebook.Config{
		DefaultPolicy: model.GradingPolicy(strings.ToLower(v.GetString("default-policy"))),
		Workers:       v.GetInt("workers"),
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	if path := v.GetString("seed"); path != "" {
		if err := seedReference(ctx, svc, db, path); err != nil {
			return err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	handler.New(svc, db).Routes(r)

	addr := v.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", addr,
			"db_driver", v.GetString("db-driver"),
			"lang", lang,
			"default_policy", v.GetString("default-policy"),
			"cache", v.GetString("cache"),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedReference imports a reference data file through svc unless the same
// content was imported before. db records the imported file hashes.
func seedReference(ctx context.Context, svc *gradebook.Service, db *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	hash := sha256sum(data)
	storedHash, err := db.GetImportedFileHash(ctx, path)
	if err != nil {
		return fmt.Errorf("check import status for %s: %w", path, err)
	}
	if storedHash == hash {
		slog.Info("reference file unchanged, skipping", "path", path)
		return nil
	}

	var ref model.ReferenceImport
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	added, err := svc.ImportReference(ctx, ref)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err := db.SetImportedFileHash(ctx, path, hash); err != nil {
		return fmt.Errorf("record import for %s: %w", path, err)
	}
	slog.Info("imported reference data", "path", path, "added", added)
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
