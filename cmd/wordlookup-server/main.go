package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/wordlookup/internal/assets"
	"github.com/at-ishikawa/wordlookup/internal/bootstrap"
	"github.com/at-ishikawa/wordlookup/internal/config"
	"github.com/at-ishikawa/wordlookup/internal/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/lookup"
	"github.com/at-ishikawa/wordlookup/internal/server"
	"github.com/at-ishikawa/wordlookup/internal/session"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "wordlookup-server",
		Short:         "Dictionary page HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	handler, closeHandler, err := newHandler(cfg)
	if err != nil {
		return fmt.Errorf("newHandler() > %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORS(h2c.NewHandler(handler, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	// Hooks run in reverse: the server stops taking requests before the sessions are closed.
	app.AddShutdownHook("sessions", closeHandler)
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// newHandler wires the dictionary clients and the session store into the HTTP handler.
// The returned function releases them.
func newHandler(cfg *config.Config) (http.Handler, func(ctx context.Context) error, error) {
	renderer, err := assets.NewRenderer(cfg.Templates.Directory)
	if err != nil {
		return nil, nil, fmt.Errorf("assets.NewRenderer() > %w", err)
	}

	client := dictionary.NewAPIClient(dictionary.Config{
		BaseURL: cfg.Dictionary.BaseURL,
		Timeout: cfg.Dictionary.Timeout,
	})
	words := dictionary.NewRandomWordClient(cfg.RandomWord.BaseURL, cfg.Dictionary.Timeout)
	wordOfTheDay := lookup.NewWordOfTheDay(words, client, cfg.WordOfTheDay.Attempts)

	store := session.NewStore(func(page *lookup.Page) *lookup.Controller {
		return lookup.NewController(page, client, renderer,
			lookup.WithHistoryOnFailure(cfg.Lookup.HistoryOnFailure),
			lookup.WithWordOfTheDay(wordOfTheDay),
		)
	}, cfg.Server.MaxSessions)

	handler, err := server.NewHandler(store, renderer)
	if err != nil {
		_ = words.Close()
		return nil, nil, fmt.Errorf("server.NewHandler() > %w", err)
	}

	closeHandler := func(ctx context.Context) error {
		return errors.Join(store.Close(ctx), words.Close())
	}
	return handler, closeHandler, nil
}
