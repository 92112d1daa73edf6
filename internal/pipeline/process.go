package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/studysphere/internal/fallback"
	"github.com/hyperifyio/studysphere/internal/quiz"
)

const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	maxHeadings = 5
)

// DefaultHeadings are reported when no line of a document looks like a heading.
var DefaultHeadings = []string{"Introduction", "Key Concepts", "Important Details", "Summary Points", "Study Notes"}

// ProcessInput is one document to process. FileID identifies the document
// in progress updates; empty means a new id is generated.
type ProcessInput struct {
	FileID string
	Title  string
	Text   string
}

// Processed is the result of ProcessDocument.
type Processed struct {
	FileID        string          `json:"fileId"`
	Title         string          `json:"title"`
	Text          string          `json:"text"`
	ExtractedText string          `json:"extractedText"`
	Summary       string          `json:"summary"`
	QuizQuestions []quiz.Question `json:"quizQuestions"`
	WordCount     int             `json:"wordCount"`
	Headings      []string        `json:"headings"`
	Status        string          `json:"status"`
}

// ProcessDocument generates the summary and the quiz of one document
// concurrently and joins them. It fails only on empty input or cancellation.
func (g *Generator) ProcessDocument(ctx context.Context, in ProcessInput) (Processed, error) {
	if strings.TrimSpace(in.Text) == "" || strings.TrimSpace(in.Title) == "" {
		return Processed{}, ErrEmptyInput
	}
	fileID := in.FileID
	if fileID == "" {
		fileID = g.newID()
	}
	g.notify(fileID, StatusStarted, 0, map[string]string{"title": in.Title})

	var (
		summary   string
		questions []quiz.Question
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s, err := g.GenerateSummary(egctx, in.Text)
		summary = s
		return err
	})
	eg.Go(func() error {
		qs, err := g.GenerateQuiz(egctx, in.Text)
		questions = qs
		return err
	})
	if err := eg.Wait(); err != nil {
		log.Warn().Str("stage", "process").Str("file_id", fileID).Err(err).Msg("document processing aborted")
		g.notify(fileID, StatusFailed, 0, nil)
		return Processed{}, err
	}

	out := Processed{
		FileID:        fileID,
		Title:         in.Title,
		Text:          in.Text,
		ExtractedText: in.Text,
		Summary:       summary,
		QuizQuestions: questions,
		WordCount:     fallback.WordCount(in.Text),
		Headings:      Headings(in.Text),
		Status:        StatusCompleted,
	}
	g.notify(fileID, StatusCompleted, 100, map[string]int{"wordCount": out.WordCount, "questions": len(questions)})
	log.Info().Str("stage", "process").Str("file_id", fileID).Int("words", out.WordCount).Int("questions", len(questions)).Msg("document processed")
	return out, nil
}

func (g *Generator) notify(fileID string, status string, progress int, data any) {
	if g.Notifier == nil {
		return
	}
	g.Notifier.SendProcessingUpdate(fileID, status, progress, data)
}

var (
	numberedRe = regexp.MustCompile(`^\d+\.`)
	labelRe    = regexp.MustCompile(`^[A-Z][A-Z\s]+:`)
)

// Headings picks up to five heading-like lines of text, falling back to
// DefaultHeadings when none qualifies.
func Headings(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.ToUpper(trimmed) == trimmed || numberedRe.MatchString(line) || labelRe.MatchString(line) || len(line) < 100 {
			out = append(out, trimmed)
			if len(out) == maxHeadings {
				break
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultHeadings...)
	}
	return out
}
