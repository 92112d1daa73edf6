// Package normalize reshapes successful model output into canonical results.
// Every failure wraps llm.ErrMalformedOutput so callers can hand it to the
// fallback ladder exactly like an upstream failure.
package normalize

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kaptinlin/jsonschema"

	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/quiz"
	"github.com/hyperifyio/studysphere/internal/study"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	quizSchema   = sync.OnceValues(func() (*jsonschema.Schema, error) { return loadSchema("schemas/quiz.schema.json") })
	bundleSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { return loadSchema("schemas/bundle.schema.json") })
)

func loadSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// validate checks data against the schema returned by load.
func validate(load func() (*jsonschema.Schema, error), data []byte) error {
	schema, err := load()
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: not valid JSON", llm.ErrMalformedOutput)
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: schema validation failed: %v", llm.ErrMalformedOutput, result.Errors)
}

// Chat wraps raw verbatim into an assistant message.
func Chat(raw string, id string, now time.Time) study.ChatMessage {
	return study.ChatMessage{
		ID:        id,
		Role:      study.RoleAssistant,
		Content:   raw,
		Timestamp: now.UnixMilli(),
	}
}

// Summary returns raw unchanged.
func Summary(raw string) string { return raw }

type rawQuiz struct {
	Quiz []struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Answer   string   `json:"answer"`
	} `json:"quiz"`
}

// Quiz parses {"quiz":[{question, options, answer}]}. The answer is resolved
// to the index of the option with exactly the same text; an answer matching
// no option keeps quiz.Unresolved.
func Quiz(raw string) ([]quiz.Question, error) {
	data := []byte(stripFence(raw))
	if err := validate(quizSchema, data); err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}
	var parsed rawQuiz
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("quiz: %w: %v", llm.ErrMalformedOutput, err)
	}
	out := make([]quiz.Question, 0, len(parsed.Quiz))
	for i, item := range parsed.Quiz {
		out = append(out, quiz.Question{
			ID:            i + 1,
			Type:          quiz.MultipleChoice,
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: quiz.IndexAnswer(indexOf(item.Options, item.Answer)),
			Explanation:   "The correct answer is: " + item.Answer,
		})
	}
	return out, nil
}

func indexOf(options []string, answer string) int {
	for i, o := range options {
		if o == answer {
			return i
		}
	}
	return quiz.Unresolved
}

// Bundle parses the study-assistant reply. Text around the outermost JSON
// object is ignored. Answer letters are trimmed and upper-cased and must
// name one of the question's options.
func Bundle(raw string) (study.Bundle, error) {
	span, ok := objectSpan(raw)
	if !ok {
		return study.Bundle{}, fmt.Errorf("bundle: %w: no JSON object in response", llm.ErrMalformedOutput)
	}
	if err := validate(bundleSchema, span); err != nil {
		return study.Bundle{}, fmt.Errorf("bundle: %w", err)
	}
	var b study.Bundle
	if err := json.Unmarshal(span, &b); err != nil {
		return study.Bundle{}, fmt.Errorf("bundle: %w: %v", llm.ErrMalformedOutput, err)
	}
	for i := range b.Quiz {
		b.Quiz[i].CorrectAnswer = strings.ToUpper(strings.TrimSpace(b.Quiz[i].CorrectAnswer))
		if b.Quiz[i].OptionIndex() < 0 {
			return study.Bundle{}, fmt.Errorf("bundle: %w: question %d answer %q names no option", llm.ErrMalformedOutput, i+1, b.Quiz[i].CorrectAnswer)
		}
	}
	if !b.Complete() {
		return study.Bundle{}, fmt.Errorf("bundle: %w: incomplete response structure", llm.ErrMalformedOutput)
	}
	return b, nil
}

// objectSpan returns the text from the first '{' to the last '}'.
func objectSpan(s string) ([]byte, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, false
	}
	return []byte(s[start : end+1]), true
}

// stripFence removes a surrounding Markdown code fence, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	b := []byte(s)
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		return s
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return string(bytes.TrimSpace(b))
}
