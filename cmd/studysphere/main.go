package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/studysphere/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		envFiles    string
		task        string
		inputPath   string
		message     string
		outputPath  string
		pdfPath     string
		llmBaseURL  string
		llmModel    string
		bundleModel string
		llmKey      string
		addr        string
		uploadsDir  string
		timeout     time.Duration
		verbose     bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("STUDYSPHERE_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load before reading the environment")
	flag.StringVar(&task, "task", "", "Run one task (chat|summary|quiz|bundle) instead of serving HTTP")
	flag.StringVar(&inputPath, "input", "", "Input document for -task")
	flag.StringVar(&message, "message", "", "Question to ask for -task chat")
	flag.StringVar(&outputPath, "output", "", "Write task JSON here instead of stdout")
	flag.StringVar(&pdfPath, "pdf", "", "Also render the study bundle as PDF (bundle task only)")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model for chat, summary and quiz")
	flag.StringVar(&bundleModel, "llm.bundleModel", "", "Model for the study bundle")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the OpenAI-compatible server")
	flag.StringVar(&addr, "addr", "", "HTTP listen address")
	flag.StringVar(&uploadsDir, "uploads", "", "Directory uploaded files are read from")
	flag.DurationVar(&timeout, "timeout", 0, "Per-request generation timeout")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Fatal().Err(err).Msg("load env files")
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// Explicit flags override file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "task":
			cfg.Task = task
		case "input":
			cfg.InputPath = inputPath
		case "message":
			cfg.Message = message
		case "output":
			cfg.OutputPath = outputPath
		case "pdf":
			cfg.OutputPDFPath = pdfPath
		case "llm.base":
			cfg.LLMBaseURL = llmBaseURL
		case "llm.model":
			cfg.LLMModel = llmModel
		case "llm.bundleModel":
			cfg.LLMBundleModel = bundleModel
		case "llm.key":
			cfg.LLMAPIKey = llmKey
		case "addr":
			cfg.Addr = addr
		case "uploads":
			cfg.UploadsDir = uploadsDir
		case "timeout":
			cfg.RequestTimeout = timeout
		case "v":
			cfg.Verbose = verbose
		}
	})

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
