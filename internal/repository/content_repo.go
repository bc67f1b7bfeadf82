package repository

import (
	"context"

	"agriconnect-api/internal/model"

	"gorm.io/gorm"
)

type WeatherRepository interface {
	Create(ctx context.Context, report *model.WeatherReport) error
	FindAll(ctx context.Context) ([]model.WeatherReport, error)
}

type weatherRepo struct {
	db *gorm.DB
}

func NewWeatherRepo(db *gorm.DB) WeatherRepository {
	return &weatherRepo{db}
}

func (r *weatherRepo) Create(ctx context.Context, report *model.WeatherReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *weatherRepo) FindAll(ctx context.Context) ([]model.WeatherReport, error) {
	var reports []model.WeatherReport
	err := r.db.WithContext(ctx).Order("report_date DESC").Order("created_at DESC").Find(&reports).Error
	return reports, err
}

type UpdateRepository interface {
	Create(ctx context.Context, update *model.FarmingUpdate) error
	FindAll(ctx context.Context) ([]model.FarmingUpdate, error)
}

type updateRepo struct {
	db *gorm.DB
}

func NewUpdateRepo(db *gorm.DB) UpdateRepository {
	return &updateRepo{db}
}

func (r *updateRepo) Create(ctx context.Context, update *model.FarmingUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *updateRepo) FindAll(ctx context.Context) ([]model.FarmingUpdate, error) {
	var updates []model.FarmingUpdate
	err := r.db.WithContext(ctx).Order("published_at DESC").Find(&updates).Error
	return updates, err
}
