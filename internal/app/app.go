// Package app wires configuration, the model client, the generation pipeline
// and the HTTP server into a runnable process.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/studysphere/internal/budget"
	"github.com/hyperifyio/studysphere/internal/events"
	"github.com/hyperifyio/studysphere/internal/export"
	"github.com/hyperifyio/studysphere/internal/extract"
	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/pipeline"
	"github.com/hyperifyio/studysphere/internal/prompt"
	"github.com/hyperifyio/studysphere/internal/server"
)

type App struct {
	cfg    Config
	gen    *pipeline.Generator
	events *events.Registry
	client llm.Client
	// Out receives task output when no output path is configured.
	Out io.Writer
}

// New builds the application. A missing credential is not an error; the
// model preflight only runs when a key is present and never fails startup.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	provider := llm.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL, newLLMHTTPClient(cfg.RequestTimeout))
	registry := events.NewRegistry(events.DefaultBuffer)
	a := &App{
		cfg:    cfg,
		client: provider,
		events: registry,
		Out:    os.Stdout,
	}
	a.gen = &pipeline.Generator{
		Invoker:           &llm.Invoker{Client: provider, APIKey: cfg.LLMAPIKey},
		Models:            pipeline.Models{Default: cfg.LLMModel, Bundle: cfg.LLMBundleModel},
		ChatContextTokens: cfg.ChatContextTokens,
		Notifier:          registry,
	}

	if !cfg.Configured() {
		log.Warn().Msg("LLM_API_KEY not set; all tasks will return fallback content")
		return a, nil
	}
	a.preflight(ctx)
	return a, nil
}

func (a *App) preflight(ctx context.Context) {
	lister, ok := a.client.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Generator exposes the configured pipeline.
func (a *App) Generator() *pipeline.Generator { return a.gen }

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return server.NewRouter(server.Config{
		Generator:      a.gen,
		Events:         a.events,
		UploadsDir:     a.cfg.UploadsDir,
		CORSOrigins:    a.cfg.CORSOrigins,
		RequestTimeout: a.cfg.RequestTimeout,
		Heartbeat:      a.cfg.Heartbeat,
	})
}

// Run executes the configured one-shot task, or serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Task != "" {
		return a.RunTask(ctx)
	}
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is done, then shuts down
// gracefully. Request contexts derive from ctx so open event streams end.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().Str("addr", ln.Addr().String()).Bool("llm_configured", a.cfg.Configured()).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown incomplete")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// RunTask reads the input document, runs one task and writes its canonical
// JSON. The bundle task can additionally render a PDF.
func (a *App) RunTask(ctx context.Context) error {
	task, err := prompt.ParseTask(a.cfg.Task)
	if err != nil {
		return err
	}
	doc, err := readInput(a.cfg.InputPath)
	if err != nil {
		return err
	}
	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(a.cfg.InputPath), filepath.Ext(a.cfg.InputPath))
	}

	var result any
	switch task {
	case prompt.TaskChat:
		docs := []budget.Document{{Name: title, Content: doc.Text}}
		result, err = a.gen.GenerateChatReply(ctx, a.cfg.Message, docs)
	case prompt.TaskSummary:
		var summary string
		summary, err = a.gen.GenerateSummary(ctx, doc.Text)
		result = map[string]string{"summary": summary}
	case prompt.TaskQuiz:
		result, err = a.gen.GenerateQuiz(ctx, doc.Text)
	case prompt.TaskBundle:
		b, berr := a.gen.GenerateStudyBundle(ctx, doc.Text)
		if berr == nil && a.cfg.OutputPDFPath != "" {
			berr = export.WriteBundlePDFFile(a.cfg.OutputPDFPath, title, b)
		}
		result, err = b, berr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", task, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", task, err)
	}
	out = append(out, '\n')
	if a.cfg.OutputPath == "" {
		_, err = a.Out.Write(out)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("task", string(task)).Str("output", a.cfg.OutputPath).Msg("task written")
	return nil
}

// readInput extracts text from a local file, choosing the extractor by file
// extension.
func readInput(path string) (extract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Document{}, fmt.Errorf("read input: %w", err)
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	return extract.For(mediaType).Extract(data), nil
}
