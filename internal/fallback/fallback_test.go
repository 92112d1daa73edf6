package fallback

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperifyio/studysphere/internal/llm"
	"github.com/hyperifyio/studysphere/internal/quiz"
)

// outcomes returns one representative outcome per failure class.
func outcomes() map[Class]llm.Outcome {
	return map[Class]llm.Outcome{
		NotConfigured:     {Category: llm.Unauthorized, Detail: "not configured", Err: llm.ErrNotConfigured},
		QuotaExceeded:     {Category: llm.RateLimited, Detail: "slow down", Err: errors.New("429")},
		InvalidCredential: {Category: llm.Unauthorized, Detail: "invalid api key", Err: errors.New("401")},
		TransportError:    {Category: llm.Transport, Detail: "dial tcp: refused", Err: errors.New("dial")},
		UpstreamError:     {Category: llm.MalformedUpstream, Detail: "model overloaded", Err: errors.New("503")},
		EmptyResponse:     {Category: llm.MalformedUpstream, Detail: "empty", Err: llm.ErrEmptyCompletion},
		ParseError:        llm.Malformed(fmt.Errorf("quiz: %w: bad", llm.ErrMalformedOutput)),
	}
}

func TestClassify(t *testing.T) {
	for want, o := range outcomes() {
		if got := Classify(o); got != want {
			t.Fatalf("Classify(%+v) = %s, want %s", o, got, want)
		}
	}
	if got := Classify(llm.Outcome{Category: llm.Success}); got != UpstreamError {
		t.Fatalf("success maps to %s", got)
	}
	if len(Classes()) != len(outcomes()) {
		t.Fatalf("Classes() out of sync")
	}
}

func TestEveryClassYieldsValidResult(t *testing.T) {
	const text = "Cells divide by mitosis. Each daughter cell is identical."
	for _, c := range Classes() {
		o := outcomes()[c]
		t.Run(string(c), func(t *testing.T) {
			if strings.TrimSpace(Chat(o)) == "" {
				t.Fatalf("empty chat substitute")
			}
			if s := Summary(o, text); !strings.HasPrefix(s, "This document contains 9 words.") {
				t.Fatalf("summary lacks word count: %q", s)
			}
			qs := Quiz(o, text)
			if len(qs) != 1 {
				t.Fatalf("want exactly one question, got %d", len(qs))
			}
			if err := quiz.Validate(qs[0], quiz.ValidateOptions{}); err != nil {
				t.Fatalf("invalid quiz substitute: %v", err)
			}
			b := Bundle(o, text)
			if !b.Complete() {
				t.Fatalf("incomplete bundle: %+v", b)
			}
			for _, q := range b.Quiz {
				if q.OptionIndex() < 0 {
					t.Fatalf("bundle answer %q does not name an option", q.CorrectAnswer)
				}
			}
			if !strings.Contains(b.Explanation, lookup(bundleNotes, c)) {
				t.Fatalf("bundle explanation does not name the failure: %q", b.Explanation)
			}
		})
	}
}

func TestSummary_NotConfiguredMentionsConfiguration(t *testing.T) {
	s := Summary(outcomes()[NotConfigured], "one two  three\nfour")
	if !strings.Contains(s, "4 words") || !strings.Contains(s, "not configured") {
		t.Fatalf("unexpected summary: %q", s)
	}
}

func TestSummary_UpstreamCarriesDetail(t *testing.T) {
	s := Summary(outcomes()[UpstreamError], "x")
	if !strings.Contains(s, "model overloaded") {
		t.Fatalf("detail missing: %q", s)
	}
	s = Summary(llm.Outcome{Category: llm.MalformedUpstream}, "x")
	if !strings.Contains(s, "Unknown error") {
		t.Fatalf("default detail missing: %q", s)
	}
}

func TestQuiz_ExplanationCountsInputWords(t *testing.T) {
	for _, c := range Classes() {
		q := Quiz(outcomes()[c], "cells divide  by\nmitosis")[0]
		if !strings.HasSuffix(q.Explanation, "The submitted text has 4 words.") {
			t.Fatalf("%s: explanation %q lacks the word count", c, q.Explanation)
		}
	}
}

// A parse failure and a rate limit produce the same shape and differ in text.
func TestQuiz_ParseErrorMatchesRateLimitedShape(t *testing.T) {
	parse := Quiz(outcomes()[ParseError], "")[0]
	limited := Quiz(outcomes()[QuotaExceeded], "")[0]
	pi, _ := parse.CorrectAnswer.Index()
	li, _ := limited.CorrectAnswer.Index()
	if parse.ID != limited.ID || parse.Type != limited.Type || len(parse.Options) != len(limited.Options) || pi != li {
		t.Fatalf("shapes differ:\n%+v\n%+v", parse, limited)
	}
	if parse.Explanation == limited.Explanation {
		t.Fatalf("explanations should identify the failure class")
	}
}

func TestBundle_TopicAware(t *testing.T) {
	o := outcomes()[TransportError]
	if b := Bundle(o, "Notes on PHOTOSYNTHESIS"); !strings.Contains(b.Summary[0], "Photosynthesis") {
		t.Fatalf("science text should get the science bundle: %v", b.Summary)
	}
	if b := Bundle(o, "The French revolution"); !strings.Contains(b.Summary[0], "StudySphere") {
		t.Fatalf("other text should get the generic bundle: %v", b.Summary)
	}
}

func TestBundle_FreshCopies(t *testing.T) {
	o := outcomes()[ParseError]
	a := Bundle(o, "biology")
	a.Quiz[0].Options[0] = "changed"
	b := Bundle(o, "biology")
	if b.Quiz[0].Options[0] != "Chlorophyll" {
		t.Fatalf("substitutes must not share state")
	}
}

func TestChat_Deterministic(t *testing.T) {
	for _, o := range outcomes() {
		if Chat(o) != Chat(o) {
			t.Fatalf("chat substitute not deterministic")
		}
	}
	if !strings.Contains(Chat(outcomes()[UpstreamError]), "model overloaded") {
		t.Fatalf("upstream chat substitute should carry the detail")
	}
}
