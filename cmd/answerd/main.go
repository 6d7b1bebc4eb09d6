package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/app"
	"github.com/nlsearch/answerd/internal/httpapi"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		listenAddr string
		configPath string
		envFile    string
		llmBaseURL string
		llmModel   string
		searchFile string
		verbose    bool
	)
	flag.StringVar(&listenAddr, "listen", "", "Listen address (default :8000)")
	flag.StringVar(&configPath, "config", "", "Path to optional YAML/JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Path to dotenv file with secrets")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&searchFile, "search.file", "", "Path to JSON file for the offline search provider")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Fatal().Err(err).Msg("load env file")
	}

	cfg := app.Config{
		ListenAddr:     listenAddr,
		LLMBaseURL:     llmBaseURL,
		LLMModel:       llmModel,
		FileSearchPath: searchFile,
		Verbose:        verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)
	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = app.DefaultAllowedOrigins
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	pipeline := app.New(cfg)
	mux := http.NewServeMux()
	(&httpapi.Handler{Pipeline: pipeline}).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.CORS(cfg.AllowedOrigins, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}
