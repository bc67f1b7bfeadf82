package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agriconnect-api/internal/events"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/weather"

	"github.com/rs/zerolog/log"
)

type WeatherService interface {
	FetchAndStore(ctx context.Context, location string) (*model.WeatherReport, error)
	ListReports(ctx context.Context) ([]model.WeatherReport, error)
}

type weatherService struct {
	repo   repository.WeatherRepository
	client weather.Client
	events events.Publisher
	now    func() time.Time
}

func NewWeatherService(repo repository.WeatherRepository, client weather.Client, pub events.Publisher) WeatherService {
	return &weatherService{repo: repo, client: client, events: pub, now: time.Now}
}

// FetchAndStore pulls current conditions for a location and stores them as
// today's report, dated by the server clock.
func (s *weatherService) FetchAndStore(ctx context.Context, location string) (*model.WeatherReport, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	current, err := s.client.Current(ctx, location)
	if err != nil {
		var perr *weather.ProviderError
		if errors.As(err, &perr) {
			log.Warn().Int("status", perr.Status).Str("location", location).Msg("weather provider rejected request")
			return nil, upstream(perr.Status, perr.Body, err)
		}
		log.Error().Err(err).Str("location", location).Msg("weather fetch failed")
		return nil, upstream(http.StatusInternalServerError, nil, err)
	}

	now := s.now().UTC()
	report := &model.WeatherReport{
		Location:    location,
		ReportDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Temperature: current.Temperature,
		Humidity:    current.Humidity,
		Rainfall:    current.Rainfall,
		Conditions:  current.Conditions,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	notify(s.events, events.Event{
		Type:    "weather_update",
		Action:  events.ActionWeatherStored,
		Key:     location,
		Data:    map[string]interface{}{"report": report.ToResponse()},
		Message: fmt.Sprintf("%s: %.1f°C, %s", location, report.Temperature, report.Conditions),
	})
	return report, nil
}

func (s *weatherService) ListReports(ctx context.Context) ([]model.WeatherReport, error) {
	return s.repo.FindAll(ctx)
}
