package quiz

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// IsCorrect scores a submitted answer against q. Submissions are strings in
// the form a client sends them: an option index for multiple choice,
// "true"/"false" for true/false, free text for short answers. Unknown
// question types never match.
func IsCorrect(q Question, submitted string) bool {
	switch q.Type {
	case MultipleChoice:
		want, ok := q.CorrectAnswer.Index()
		if !ok {
			return false
		}
		got, err := strconv.Atoi(strings.TrimSpace(submitted))
		if err != nil {
			return false
		}
		return got == want
	case TrueFalse:
		want, ok := q.CorrectAnswer.Bool()
		if !ok {
			return false
		}
		return submitted == strconv.FormatBool(want)
	case ShortAnswer:
		accepted, ok := q.CorrectAnswer.Accepted()
		if !ok {
			return false
		}
		return matchesAny(submitted, accepted)
	}
	return false
}

// matchesAny reports whether submitted contains any non-empty accepted
// answer as a case-insensitive substring. An empty submission never matches.
func matchesAny(submitted string, accepted []string) bool {
	if strings.TrimSpace(submitted) == "" {
		return false
	}
	fold := cases.Fold()
	got := fold.String(submitted)
	for _, a := range accepted {
		if a == "" {
			continue
		}
		if strings.Contains(got, fold.String(a)) {
			return true
		}
	}
	return false
}
