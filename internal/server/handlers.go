package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/studysphere/internal/budget"
	"github.com/hyperifyio/studysphere/internal/extract"
	"github.com/hyperifyio/studysphere/internal/pipeline"
	"github.com/hyperifyio/studysphere/internal/quiz"
)

// Handlers serves the generation API.
type Handlers struct {
	Gen        *pipeline.Generator
	UploadsDir string
}

type chatRequest struct {
	Message string            `json:"message"`
	Files   []budget.Document `json:"files"`
}

type processRequest struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	FileID   string `json:"fileId"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type studyRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

type scoreRequest struct {
	Question quiz.Question   `json:"question"`
	Answer   json.RawMessage `json:"answer"`
}

func (h *Handlers) Health(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok", "llmConfigured": h.Gen.Invoker.Configured()})
}

func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		RespondError(c, http.StatusBadRequest, "missing_message", "Message is required")
		return
	}
	msg, err := h.Gen.GenerateChatReply(c.Request.Context(), req.Message, req.Files)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": msg})
}

func (h *Handlers) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	in := pipeline.ProcessInput{FileID: req.FileID}
	switch {
	case req.Text != "" && req.Title != "":
		in.Text, in.Title = req.Text, req.Title
	case req.FilePath != "" && req.FileName != "":
		doc, err := extract.FromUpload(h.UploadsDir, req.FilePath, req.FileType)
		if errors.Is(err, extract.ErrOutsideUploads) {
			RespondError(c, http.StatusBadRequest, "invalid_path", "filePath must point inside the uploads directory")
			return
		}
		if err != nil {
			log.Warn().Str("stage", "extract").Str("file", req.FileName).Err(err).Msg("extraction failed")
			RespondError(c, http.StatusBadRequest, "extract_failed", "Unable to extract content or title")
			return
		}
		in.Text, in.Title = doc.Text, req.FileName
	default:
		RespondError(c, http.StatusBadRequest, "missing_params", "Missing required parameters: either (text and title) or (filePath and fileName)")
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		RespondError(c, http.StatusBadRequest, "extract_failed", "Unable to extract content or title")
		return
	}
	out, err := h.Gen.ProcessDocument(c.Request.Context(), in)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	RespondOK(c, out)
}

func (h *Handlers) StudyAssistant(c *gin.Context) {
	var req studyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "missing_text", "Text is required")
		return
	}
	b, err := h.Gen.GenerateStudyBundle(c.Request.Context(), req.Text)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	RespondOK(c, b)
}

func (h *Handlers) ScoreQuiz(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	RespondOK(c, gin.H{"correct": h.Gen.ScoreAnswer(req.Question, submitted(req.Answer))})
}

// submitted accepts a JSON string as-is and any other JSON scalar by its
// literal text, so 2 and "2" score alike.
func submitted(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	v := strings.TrimSpace(string(raw))
	if v == "null" {
		return ""
	}
	return v
}

func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		RespondError(c, http.StatusBadRequest, "empty_input", "input text is required")
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusGatewayTimeout, "timeout", "request timed out")
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(StatusClientClosedRequest)
	default:
		log.Error().Err(err).Msg("generation failed")
		RespondError(c, http.StatusInternalServerError, "internal", "processing failed")
	}
}
