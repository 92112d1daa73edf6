// Package pipeline runs the generation tasks end to end: context assembly,
// prompt construction, one model call, then normalization on success or the
// fallback ladder on any failure.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/studysphere/internal/budget"
	"github.com/hyperifyio/studysphere/internal/fallback"
	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/normalize"
	"github.com/hyperifyio/studysphere/internal/prompt"
	"github.com/hyperifyio/studysphere/internal/quiz"
	"github.com/hyperifyio/studysphere/internal/study"
)

// ErrEmptyInput rejects blank user text before any stage runs.
var ErrEmptyInput = errors.New("empty input")

// DefaultChatContextTokens is the chat context budget used when none is set.
const DefaultChatContextTokens = 3000

// Models selects the model per task family.
type Models struct {
	// Default serves chat, summary and quiz.
	Default string
	// Bundle serves the study bundle; empty means Default.
	Bundle string
}

// Notifier receives document-processing progress.
type Notifier interface {
	SendProcessingUpdate(fileID string, status string, progress int, data any)
}

// Generator holds the read-only configuration shared by all requests. It
// keeps no per-request state and is safe for concurrent use.
type Generator struct {
	Invoker           *llm.Invoker
	Models            Models
	ChatContextTokens int
	Notifier          Notifier
	// Now and NewID default to time.Now and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}

func (g *Generator) bundleModel() string {
	if strings.TrimSpace(g.Models.Bundle) != "" {
		return g.Models.Bundle
	}
	return g.Models.Default
}

func (g *Generator) chatBudget(model string, question string) int {
	want := g.ChatContextTokens
	if want <= 0 {
		want = DefaultChatContextTokens
	}
	p, _ := prompt.ParamsFor(prompt.TaskChat)
	framing := budget.EstimateTokensFromChars(prompt.FramingChars(question))
	return budget.ClampContextBudget(model, want, p.MaxTokens, framing)
}

// call builds and sends one request. A cancelled ctx is returned as an error
// so that no partial result escapes.
func (g *Generator) call(ctx context.Context, task prompt.Task, model string, docContext string, input string) (llm.Outcome, error) {
	req, err := prompt.Build(task, model, docContext, input)
	if err != nil {
		return llm.Outcome{}, err
	}
	log.Debug().Str("stage", "prompt").Str("task", string(task)).Str("model", model).
		Int("tokens", promptTokens(req.Messages)).Msg("request built")
	out := g.Invoker.Invoke(ctx, req)
	if err := ctx.Err(); err != nil {
		return llm.Outcome{}, err
	}
	return out, nil
}

// degraded logs a failure that the ladder is about to absorb.
func degraded(task prompt.Task, o llm.Outcome) {
	log.Warn().Str("stage", "fallback").Str("task", string(task)).Str("category", string(o.Category)).
		Str("class", string(fallback.Classify(o))).Str("detail", o.Detail).Msg("using fallback result")
}

// GenerateChatReply answers message using docs as context, most important
// first. Failures yield an explanatory assistant message.
func (g *Generator) GenerateChatReply(ctx context.Context, message string, docs []budget.Document) (study.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return study.ChatMessage{}, ErrEmptyInput
	}
	model := g.Models.Default
	limit := g.chatBudget(model, message)
	docContext := budget.Allocate(docs, limit)
	log.Debug().Str("stage", "allocate").Int("documents", len(docs)).Int("budget", limit).
		Int("tokens", budget.EstimateTokens(docContext)).Msg("context assembled")

	out, err := g.call(ctx, prompt.TaskChat, model, docContext, message)
	if err != nil {
		return study.ChatMessage{}, err
	}
	text := out.Text
	if !out.OK() {
		degraded(prompt.TaskChat, out)
		text = fallback.Chat(out)
	}
	return normalize.Chat(text, g.newID(), g.now()), nil
}

// GenerateSummary summarizes text.
func (g *Generator) GenerateSummary(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	out, err := g.call(ctx, prompt.TaskSummary, g.Models.Default, "", text)
	if err != nil {
		return "", err
	}
	if !out.OK() {
		degraded(prompt.TaskSummary, out)
		return fallback.Summary(out, text), nil
	}
	return normalize.Summary(out.Text), nil
}

// GenerateQuiz returns at least one question for text.
func (g *Generator) GenerateQuiz(ctx context.Context, text string) ([]quiz.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	out, err := g.call(ctx, prompt.TaskQuiz, g.Models.Default, "", text)
	if err != nil {
		return nil, err
	}
	if out.OK() {
		qs, perr := normalize.Quiz(out.Text)
		if perr == nil {
			return qs, nil
		}
		out = llm.Malformed(perr)
	}
	degraded(prompt.TaskQuiz, out)
	return fallback.Quiz(out, text), nil
}

// GenerateStudyBundle returns a summary, quiz and explanation for text. All
// three fields are always populated.
func (g *Generator) GenerateStudyBundle(ctx context.Context, text string) (study.Bundle, error) {
	if strings.TrimSpace(text) == "" {
		return study.Bundle{}, ErrEmptyInput
	}
	out, err := g.call(ctx, prompt.TaskBundle, g.bundleModel(), "", text)
	if err != nil {
		return study.Bundle{}, err
	}
	if out.OK() {
		b, perr := normalize.Bundle(out.Text)
		if perr == nil {
			return b, nil
		}
		out = llm.Malformed(perr)
	}
	degraded(prompt.TaskBundle, out)
	return fallback.Bundle(out, text), nil
}

// ScoreAnswer reports whether answer is correct for q.
func (g *Generator) ScoreAnswer(q quiz.Question, answer string) bool {
	return quiz.IsCorrect(q, answer)
}

func promptTokens(msgs []openai.ChatCompletionMessage) int {
	var system, user string
	for _, m := range msgs {
		switch m.Role {
		case openai.ChatMessageRoleSystem:
			system = m.Content
		case openai.ChatMessageRoleUser:
			user = m.Content
		}
	}
	return budget.EstimatePromptTokens(system, user, nil)
}
