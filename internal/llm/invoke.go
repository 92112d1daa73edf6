package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Category classifies the result of one model call.
type Category string

const (
	Success           Category = "success"
	RateLimited       Category = "rate_limited"
	Unauthorized      Category = "unauthorized"
	Transport         Category = "transport"
	MalformedUpstream Category = "malformed_upstream"
)

var (
	// ErrNotConfigured marks the Unauthorized outcome produced when no
	// credential is configured and no request was attempted.
	ErrNotConfigured = errors.New("not configured")
	// ErrEmptyCompletion marks a 2xx response without completion content.
	ErrEmptyCompletion = errors.New("empty")
	// ErrMalformedOutput marks model output that failed local parsing or
	// schema validation.
	ErrMalformedOutput = errors.New("malformed model output")
)

// Outcome is the classified result of one Invoke. Text is set only on
// Success. Err carries the underlying error, possibly one of the sentinels
// above, for every other category.
type Outcome struct {
	Category Category
	Text     string
	Detail   string
	Err      error
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Category == Success }

// Malformed builds a MalformedUpstream outcome from a local parse failure so
// that it can take the same degradation path as an upstream failure.
func Malformed(err error) Outcome {
	if err == nil {
		err = ErrMalformedOutput
	}
	return Outcome{Category: MalformedUpstream, Detail: err.Error(), Err: err}
}

// Invoker performs exactly one chat completion call per Invoke and never
// retries. Retry policy belongs to callers.
type Invoker struct {
	Client Client
	APIKey string
}

// Configured reports whether a credential and client are present.
func (iv *Invoker) Configured() bool {
	return iv != nil && iv.Client != nil && strings.TrimSpace(iv.APIKey) != ""
}

// Invoke sends req and classifies the result.
func (iv *Invoker) Invoke(ctx context.Context, req openai.ChatCompletionRequest) Outcome {
	if !iv.Configured() {
		return Outcome{Category: Unauthorized, Detail: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}
	start := time.Now()
	resp, err := iv.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		out := classify(err)
		log.Warn().Str("stage", "invoke").Str("model", req.Model).Str("category", string(out.Category)).Dur("took", time.Since(start)).Err(err).Msg("model call failed")
		return out
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Warn().Str("stage", "invoke").Str("model", req.Model).Msg("model returned no completion")
		return Outcome{Category: MalformedUpstream, Detail: ErrEmptyCompletion.Error(), Err: ErrEmptyCompletion}
	}
	log.Debug().Str("stage", "invoke").Str("model", req.Model).Int("completion_tokens", resp.Usage.CompletionTokens).Dur("took", time.Since(start)).Msg("model call ok")
	return Outcome{Category: Success, Text: resp.Choices[0].Message.Content}
}

// classify maps a client error onto an outcome category. Status-bearing
// errors are checked before transport errors so that an HTTP failure is never
// reported as a network problem.
func classify(err error) Outcome {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return byStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := ""
		if reqErr.Err != nil {
			detail = reqErr.Err.Error()
		}
		return byStatus(reqErr.HTTPStatusCode, detail, err)
	}
	if isTransport(err) {
		return Outcome{Category: Transport, Detail: err.Error(), Err: err}
	}
	// A 2xx whose body could not be decoded.
	return Outcome{Category: MalformedUpstream, Detail: err.Error(), Err: err}
}

func byStatus(status int, message string, err error) Outcome {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "Unknown error"
	}
	switch status {
	case http.StatusTooManyRequests:
		return Outcome{Category: RateLimited, Detail: message, Err: err}
	case http.StatusUnauthorized:
		return Outcome{Category: Unauthorized, Detail: message, Err: err}
	}
	return Outcome{Category: MalformedUpstream, Detail: message, Err: err}
}

func isTransport(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
