package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"storystudio/config"
	"storystudio/internal/aiclient"
	"storystudio/internal/scenes"
	"storystudio/internal/session"
	"storystudio/internal/worker"
	"storystudio/models"
)

// ContentClient defines the operations handlers expect from the generative
// backend. This allows for decoupling and easier testing.
// The concrete implementation is provided by the aiclient package.
type ContentClient interface {
	GenerateContent(ctx context.Context, req aiclient.ContentRequest) (*aiclient.ContentResult, error)
	GenerateTopicIdeas(ctx context.Context, niche string, language models.Language) ([]string, error)
	ConvertText(ctx context.Context, source string, format models.ConvertFormat, language models.Language) (string, error)
	AnalyzeSeo(ctx context.Context, topic string, language models.Language) (*models.SeoAnalysis, error)
	GenerateImage(ctx context.Context, prompt string, style models.ImageStyle, quality models.ImageQuality, ar models.AspectRatio) (string, error)
	SummarizeToInfographic(ctx context.Context, text string, language models.Language) (string, error)
	Close() error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	AIClient  ContentClient
	Generator *scenes.Generator
	Sessions  *session.Manager
	Exports   *worker.Runner
	Config    *config.Config
	Logger    *logrus.Logger
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(aiClient ContentClient, generator *scenes.Generator, sessions *session.Manager, exports *worker.Runner, cfg *config.Config, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		AIClient:  aiClient,
		Generator: generator,
		Sessions:  sessions,
		Exports:   exports,
		Config:    cfg,
		Logger:    logger,
	}
}
