package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"agriconnect-api/pkg/ai"

	"github.com/rs/zerolog/log"
)

const maxQuestionLength = 2000

type AIService interface {
	Ask(ctx context.Context, question string) (string, error)
}

type aiService struct {
	client ai.Client
}

func NewAIService(client ai.Client) AIService {
	return &aiService{client: client}
}

func (s *aiService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrQuestionRequired
	}
	if len(question) > maxQuestionLength {
		return "", &Error{Kind: KindValidation, Code: "question_too_long", Message: "question must be at most 2000 characters"}
	}

	answer, err := s.client.Ask(ctx, question)
	if err != nil {
		var perr *ai.ProviderError
		if errors.As(err, &perr) {
			return "", upstream(perr.Status, perr.Body, err)
		}
		log.Error().Err(err).Msg("ask ai failed")
		return "", upstream(http.StatusInternalServerError, nil, err)
	}
	return answer, nil
}
