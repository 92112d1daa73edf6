// Package server exposes the generation pipeline over HTTP.
package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyperifyio/studysphere/internal/events"
	"github.com/hyperifyio/studysphere/internal/pipeline"
)

// Config wires the router.
type Config struct {
	Generator      *pipeline.Generator
	Events         *events.Registry
	UploadsDir     string
	CORSOrigins    []string
	RequestTimeout time.Duration
	Heartbeat      time.Duration
}

func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS(cfg.CORSOrigins))

	h := &Handlers{Gen: cfg.Generator, UploadsDir: cfg.UploadsDir}
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	if cfg.Events != nil {
		api.GET("/events", events.Stream(cfg.Events, cfg.Heartbeat))
	}
	gen := api.Group("", RequestTimeout(cfg.RequestTimeout))
	{
		gen.POST("/chat", h.Chat)
		gen.POST("/process", h.Process)
		gen.POST("/study-assistant", h.StudyAssistant)
		gen.POST("/quiz/score", h.ScoreQuiz)
	}
	return r
}
