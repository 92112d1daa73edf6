package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/studysphere/internal/prompt"
)

// Config holds runtime configuration for the application. Fields carrying an
// env tag are read from the environment by ApplyEnv.
type Config struct {
	// LLM
	LLMBaseURL        string `env:"LLM_BASE_URL"`
	LLMModel          string `env:"LLM_MODEL"`
	// LLMBundleModel overrides LLMModel for the study bundle; empty uses
	// LLMModel on the same endpoint.
	LLMBundleModel    string `env:"LLM_BUNDLE_MODEL"`
	LLMAPIKey         string `env:"LLM_API_KEY"`
	ChatContextTokens int    `env:"CHAT_CONTEXT_TOKENS"`

	// HTTP
	Addr            string        `env:"HTTP_ADDR"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`
	Heartbeat       time.Duration `env:"SSE_HEARTBEAT"`
	ShutdownTimeout time.Duration
	UploadsDir      string `env:"UPLOADS_DIR"`

	// One-shot task mode; empty Task serves HTTP.
	Task          string
	InputPath     string
	Message       string
	OutputPath    string
	OutputPDFPath string

	Verbose bool `env:"VERBOSE"`
}

const (
	defaultBaseURL         = "https://api.groq.com/openai/v1"
	defaultModel           = "llama3-8b-8192"
	defaultAddr            = ":8080"
	defaultUploadsDir      = "uploads"
	defaultRequestTimeout  = 60 * time.Second
	defaultHeartbeat       = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultChatContextSize = 3000
)

// DefaultConfig returns the baseline every other source overlays.
func DefaultConfig() Config {
	return Config{
		LLMBaseURL:        defaultBaseURL,
		LLMModel:          defaultModel,
		ChatContextTokens: defaultChatContextSize,
		Addr:              defaultAddr,
		RequestTimeout:    defaultRequestTimeout,
		Heartbeat:         defaultHeartbeat,
		ShutdownTimeout:   defaultShutdownTimeout,
		UploadsDir:        defaultUploadsDir,
	}
}

// Configured reports whether a model credential is present. A missing key is
// not an error: every task then degrades to its not-configured fallback.
func (c Config) Configured() bool { return strings.TrimSpace(c.LLMAPIKey) != "" }

var ErrInvalidConfig = errors.New("invalid config")

// ValidateConfig checks the combinations the runtime cannot recover from.
func ValidateConfig(cfg Config) error {
	if cfg.ChatContextTokens < 0 {
		return fmt.Errorf("%w: chat context tokens must be >= 0", ErrInvalidConfig)
	}
	if cfg.RequestTimeout < 0 || cfg.Heartbeat < 0 || cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: durations must be >= 0", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if cfg.Task == "" {
		if strings.TrimSpace(cfg.Addr) == "" {
			return fmt.Errorf("%w: listen address is required", ErrInvalidConfig)
		}
		return nil
	}
	task, err := prompt.ParseTask(cfg.Task)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(cfg.InputPath) == "" {
		return fmt.Errorf("%w: -input is required with -task", ErrInvalidConfig)
	}
	if task == prompt.TaskChat && strings.TrimSpace(cfg.Message) == "" {
		return fmt.Errorf("%w: -message is required for the chat task", ErrInvalidConfig)
	}
	if cfg.OutputPDFPath != "" && task != prompt.TaskBundle {
		return fmt.Errorf("%w: -pdf is only supported for the bundle task", ErrInvalidConfig)
	}
	return nil
}
