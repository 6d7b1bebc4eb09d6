// answerq runs the query → answer pipeline once from the command line,
// without the HTTP layer. Useful for scripting and for exercising the
// pipeline against the offline file provider.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		k          int
		configPath string
		envFile    string
		llmModel   string
		searchFile string
		verbose    bool
	)
	flag.IntVar(&k, "k", app.DefaultK, "Number of strong sources to keep")
	flag.StringVar(&configPath, "config", "", "Path to optional YAML/JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Path to dotenv file with secrets")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&searchFile, "search.file", "", "Path to JSON file for the offline search provider")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: answerq [flags] <query>")
		os.Exit(2)
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Fatal().Err(err).Msg("load env file")
	}
	cfg := app.Config{LLMModel: llmModel, FileSearchPath: searchFile, Verbose: verbose}
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
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	pipeline := app.New(cfg)
	answer, sources, err := pipeline.Answer(context.Background(), query, k)
	if err != nil {
		log.Error().Err(err).Msg("query failed")
		if errors.Is(err, app.ErrNoResults) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	fmt.Println(answer)
	fmt.Println()
	fmt.Println("Sources:")
	for i, s := range sources {
		fmt.Printf("%d. %s — %s\n", i+1, s.Title, s.Link)
	}
}
