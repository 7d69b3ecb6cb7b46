package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/api"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/apply"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/chat"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/config"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var webDir string

var rootCmd = &cobra.Command{
	Use:   "builder",
	Short: "Chat-driven website builder",
	Long: `Builder turns chat messages into Next.js project files.
Each message is sent to a code model and the files it returns are
applied to the active project in a single batch.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		mux := http.NewServeMux()
		api.NewHandler(app.store, app.chat, app.logger).Register(mux)
		mux.Handle("/", http.FileServer(http.Dir(webDir)))

		app.logger.Info("Starting server", zap.String("addr", app.cfg.Addr))
		if err := http.ListenAndServe(app.cfg.Addr, mux); err != nil {
			app.logger.Error("failed to start server", zap.Error(err))
			return err
		}
		return nil
	},
}

// store is everything the server needs from a storage backend.
type store interface {
	api.Store
	chat.ProjectStore
	apply.Store
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   store
	applier *apply.Applier
	chat    *chat.Orchestrator
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("shutdown", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger}

	switch cfg.Storage {
	case "memory":
		a.store = db.NewMemoryStore()
	default:
		database, err := db.New(cfg.DBPath)
		if err != nil {
			logger.Error("failed to initialize database",
				zap.Error(err),
				zap.String("dbPath", cfg.DBPath))
			return nil, err
		}
		a.store = database
		a.closers = append(a.closers, database.Close)
	}

	model, err := llm.NewClient(cfg.ModelProvider, cfg.BaseURL, cfg.APIKey, llm.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.ModelTimeout,
	})
	if err != nil {
		logger.Error("failed to initialize model client", zap.Error(err), zap.String("provider", cfg.ModelProvider))
		a.close()
		return nil, err
	}

	a.applier = apply.New(a.store, logger)
	a.chat = chat.New(a.store, model, a.applier, logger)
	return a, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&webDir, "web", "web", "directory of static files served at /")
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
