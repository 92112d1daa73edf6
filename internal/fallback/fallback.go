// Package fallback holds the deterministic substitutes returned in place of a
// failed or unreadable model response. Each task keeps a table keyed by
// failure class; classes missing from a table use its UpstreamError row.
package fallback

import (
	"errors"
	"strings"

	"github.com/hyperifyio/studysphere/internal/llm"
)

// Class names a failure the end user can act on.
type Class string

const (
	NotConfigured     Class = "not_configured"
	QuotaExceeded     Class = "quota_exceeded"
	InvalidCredential Class = "invalid_credential"
	TransportError    Class = "transport_error"
	UpstreamError     Class = "upstream_error"
	EmptyResponse     Class = "empty_response"
	ParseError        Class = "parse_error"
)

// Classes lists every failure class.
func Classes() []Class {
	return []Class{NotConfigured, QuotaExceeded, InvalidCredential, TransportError, UpstreamError, EmptyResponse, ParseError}
}

// Classify maps an outcome to its failure class. A successful outcome has no
// failure class and maps to UpstreamError, the default row of every table.
func Classify(o llm.Outcome) Class {
	switch o.Category {
	case llm.Unauthorized:
		if errors.Is(o.Err, llm.ErrNotConfigured) {
			return NotConfigured
		}
		return InvalidCredential
	case llm.RateLimited:
		return QuotaExceeded
	case llm.Transport:
		return TransportError
	case llm.MalformedUpstream:
		switch {
		case errors.Is(o.Err, llm.ErrEmptyCompletion):
			return EmptyResponse
		case errors.Is(o.Err, llm.ErrMalformedOutput):
			return ParseError
		}
	}
	return UpstreamError
}

func lookup[T any](table map[Class]T, c Class) T {
	if row, ok := table[c]; ok {
		return row
	}
	return table[UpstreamError]
}

// detail is the upstream message shown to the user.
func detail(o llm.Outcome) string {
	d := strings.TrimSpace(o.Detail)
	if d == "" {
		return "Unknown error"
	}
	return d
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int { return len(strings.Fields(text)) }
