// Package llmstub serves a deterministic OpenAI-compatible endpoint that
// answers each generation task with well-formed output. It backs the
// openai-stub command and end-to-end tests.
package llmstub

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/studysphere/internal/prompt"
)

const (
	ChatReply    = "Photosynthesis turns light energy into chemical energy stored in glucose."
	SummaryReply = "The document explains how plants convert light into chemical energy."
)

// QuizReply is the quiz task answer. Its second question names an answer
// that matches no option.
const QuizReply = `{"quiz":[` +
	`{"question":"Where does photosynthesis happen?","options":["Mitochondria","Chloroplasts","Nucleus","Ribosome"],"answer":"Chloroplasts"},` +
	`{"question":"What gas do plants release?","options":["Oxygen","Nitrogen"],"answer":"Helium"}` +
	`]}`

// BundleReply is the study bundle answer, wrapped in prose the normalizer
// has to strip.
const BundleReply = "Here is your study guide:\n" + `{"summary":["Plants capture light.","Chlorophyll absorbs red and blue light."],` +
	`"quiz":[{"question":"Which pigment absorbs light?","options":["Chlorophyll","Keratin","Melanin","Hemoglobin"],"correctAnswer":"a"}],` +
	`"explanation":"Plants eat sunlight to make sugar."}`

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// reply picks the canned answer for a request shape, or "" when the shape is
// not one this service produces.
func reply(req chatRequest) string {
	if len(req.Messages) == 0 {
		return ""
	}
	first := req.Messages[0]
	if first.Role != "system" {
		if len(req.Messages) == 1 && strings.Contains(first.Content, "QUIZ CREATION") {
			return BundleReply
		}
		return ""
	}
	switch strings.TrimSpace(first.Content) {
	case prompt.SummarySystem:
		return SummaryReply
	case prompt.QuizSystem:
		return QuizReply
	}
	if strings.Contains(first.Content, "Document Context:") {
		return ChatReply
	}
	return ""
}

// NewHandler returns the stub endpoints under /v1. Requests must carry a
// bearer token when key is non-empty.
func NewHandler(model string, key string) http.Handler {
	mux := http.NewServeMux()
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if key == "" || r.Header.Get("Authorization") == "Bearer "+key {
			return true
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": map[string]string{"message": "invalid api key", "type": "auth_error", "code": "invalid_api_key"},
		})
		return false
	}
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		content := reply(req)
		if content == "" {
			log.Warn().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("stub: unrecognized prompt")
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
