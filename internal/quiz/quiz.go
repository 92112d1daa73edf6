// Package quiz defines the canonical quiz question shared by generation,
// fallbacks and scoring.
package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Type identifies how a question is answered.
type Type string

const (
	MultipleChoice Type = "multiple_choice"
	TrueFalse      Type = "true_false"
	ShortAnswer    Type = "short_answer"
)

// Unresolved is the index recorded when a generated answer matches none of
// the options. Consumers render it as "answer not found".
const Unresolved = -1

// Question is one canonical quiz question.
type Question struct {
	ID            int      `json:"id"`
	Type          Type     `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer Answer   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type answerKind int

const (
	kindNone answerKind = iota
	kindIndex
	kindBool
	kindText
)

// Answer is the correct-answer representation: an option index, a boolean,
// or a list of accepted strings. The zero value holds nothing.
type Answer struct {
	kind     answerKind
	index    int
	value    bool
	accepted []string
}

// IndexAnswer returns an answer pointing at options[i].
func IndexAnswer(i int) Answer { return Answer{kind: kindIndex, index: i} }

// BoolAnswer returns a true/false answer.
func BoolAnswer(v bool) Answer { return Answer{kind: kindBool, value: v} }

// TextAnswer returns a short-answer key accepting any of the given strings.
func TextAnswer(accepted ...string) Answer {
	return Answer{kind: kindText, accepted: append([]string(nil), accepted...)}
}

// Index reports the option index when the answer is index-shaped.
func (a Answer) Index() (int, bool) { return a.index, a.kind == kindIndex }

// Bool reports the boolean value when the answer is boolean-shaped.
func (a Answer) Bool() (bool, bool) { return a.value, a.kind == kindBool }

// Accepted reports the accepted strings when the answer is text-shaped.
func (a Answer) Accepted() ([]string, bool) { return a.accepted, a.kind == kindText }

// IsZero reports whether no answer was set.
func (a Answer) IsZero() bool { return a.kind == kindNone }

// String renders the answer the way a submitted value would be written.
func (a Answer) String() string {
	switch a.kind {
	case kindIndex:
		return strconv.Itoa(a.index)
	case kindBool:
		return strconv.FormatBool(a.value)
	case kindText:
		b, _ := json.Marshal(a.accepted)
		return string(b)
	}
	return ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case kindIndex:
		return json.Marshal(a.index)
	case kindBool:
		return json.Marshal(a.value)
	case kindText:
		if a.accepted == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.accepted)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, a boolean, a string or an array of strings.
// null entries inside the array are kept as empty strings so they can be
// skipped at evaluation time.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = BoolAnswer(v)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = TextAnswer(s)
	case '[':
		var raw []*string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		out := make([]string, len(raw))
		for i, p := range raw {
			if p != nil {
				out[i] = *p
			}
		}
		*a = Answer{kind: kindText, accepted: out}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return fmt.Errorf("answer: non-integer index %s", n)
		}
		*a = IndexAnswer(i)
	}
	return nil
}

var (
	ErrUnknownType   = errors.New("unknown question type")
	ErrAnswerShape   = errors.New("correct answer does not match question type")
	ErrAnswerRange   = errors.New("correct answer index out of range")
	ErrEmptyAccepted = errors.New("short answer has no accepted answers")
	ErrEmptyQuestion = errors.New("question text is empty")
	ErrInvalidID     = errors.New("question id must be >= 1")
)

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// AllowUnresolved accepts Unresolved as a multiple-choice answer.
	AllowUnresolved bool
}

// Validate checks the invariants of a canonical question.
func Validate(q Question, opts ValidateOptions) error {
	if q.ID < 1 {
		return ErrInvalidID
	}
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	switch q.Type {
	case MultipleChoice:
		i, ok := q.CorrectAnswer.Index()
		if !ok {
			return ErrAnswerShape
		}
		if i == Unresolved && opts.AllowUnresolved {
			return nil
		}
		if i < 0 || i >= len(q.Options) {
			return fmt.Errorf("%w: %d of %d", ErrAnswerRange, i, len(q.Options))
		}
	case TrueFalse:
		if _, ok := q.CorrectAnswer.Bool(); !ok {
			return ErrAnswerShape
		}
	case ShortAnswer:
		acc, ok := q.CorrectAnswer.Accepted()
		if !ok {
			return ErrAnswerShape
		}
		for _, s := range acc {
			if s != "" {
				return nil
			}
		}
		return ErrEmptyAccepted
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, q.Type)
	}
	return nil
}
