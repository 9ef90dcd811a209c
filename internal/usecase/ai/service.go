package ai

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ChatClient is the minimal surface the service needs from a language
// model provider.
type ChatClient interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
}

// Service generates meeting summaries and extracts action items
type Service interface {
	SummarizeMeeting(ctx context.Context, transcript string) (string, error)
	ExtractActionItems(ctx context.Context, transcript string) ([]entities.ExtractedActionItem, error)
}

var errEmptySummary = errors.New("model returned an empty summary")

type service struct {
	chat   ChatClient
	logger *zap.Logger
}

// NewService creates the AI service
func NewService(chat ChatClient, logger *zap.Logger) Service {
	return &service{chat: chat, logger: logger}
}

func (s *service) SummarizeMeeting(ctx context.Context, transcript string) (string, error) {
	out, err := s.chat.ChatCompletion(ctx, summarySystemPrompt, transcript)
	if err != nil {
		return "", apperrors.ErrUpstream("openai", err)
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", apperrors.ErrUpstream("openai", errEmptySummary)
	}
	return summary, nil
}

func (s *service) ExtractActionItems(ctx context.Context, transcript string) ([]entities.ExtractedActionItem, error) {
	out, err := s.chat.ChatCompletion(ctx, extractionSystemPrompt, transcript)
	if err != nil {
		return nil, apperrors.ErrUpstream("openai", err)
	}
	items, err := parseActionItems(out)
	if err != nil {
		s.logger.Warn("model returned malformed action items", zap.Error(err))
		return nil, apperrors.ErrUpstream("openai", err)
	}
	return items, nil
}
