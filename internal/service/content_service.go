package service

import (
	"context"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"

	"github.com/rs/zerolog/log"
)

type ContentService interface {
	ListUpdates(ctx context.Context) ([]model.FarmingUpdate, error)
	SeedDefaults(ctx context.Context) error
}

// DefaultUpdates are published on an empty database so the feed is never blank.
var DefaultUpdates = []model.FarmingUpdate{
	{
		Title:    "Soil health cards now issued every two years",
		Content:  "Get your soil tested at the nearest soil testing lab to receive nutrient-specific fertilizer recommendations for your fields.",
		Category: model.CategoryNews,
	},
	{
		Title:    "Drip irrigation cuts water use by up to half",
		Content:  "Drip lines deliver water straight to the root zone. Combine them with mulching to reduce evaporation during dry spells.",
		Category: model.CategoryTechnology,
	},
	{
		Title:    "Rotate legumes to restore nitrogen",
		Content:  "Planting pulses after a cereal crop fixes atmospheric nitrogen and lowers the fertilizer bill for the next season.",
		Category: model.CategoryTips,
	},
}

type contentService struct {
	repo repository.UpdateRepository
}

func NewContentService(repo repository.UpdateRepository) ContentService {
	return &contentService{repo: repo}
}

func (s *contentService) ListUpdates(ctx context.Context) ([]model.FarmingUpdate, error) {
	return s.repo.FindAll(ctx)
}

func (s *contentService) SeedDefaults(ctx context.Context) error {
	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, u := range DefaultUpdates {
		if err := s.repo.Create(ctx, &u); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(DefaultUpdates)).Msg("seeded farming updates")
	return nil
}
