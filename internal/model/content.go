package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeatherReport is an immutable snapshot of conditions at a location on a date.
type WeatherReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Location    string    `gorm:"type:varchar(255);not null;index:idx_weather_location_date" json:"location"`
	ReportDate  time.Time `gorm:"type:date;not null;index:idx_weather_location_date" json:"report_date"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Rainfall    float64   `json:"rainfall"`
	Conditions  string    `gorm:"type:varchar(100)" json:"conditions"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateCategory string

const (
	CategoryNews       UpdateCategory = "news"
	CategoryTechnology UpdateCategory = "technology"
	CategoryTips       UpdateCategory = "tips"
)

// FarmingUpdate is an editorial news item.
type FarmingUpdate struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Category    UpdateCategory `gorm:"type:varchar(50);default:'news'" json:"category"`
	PublishedAt time.Time      `gorm:"autoCreateTime" json:"published_at"`
}

func (w *WeatherReport) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (u *FarmingUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Category == "" {
		u.Category = CategoryNews
	}
	return nil
}

// WeatherReportResponse renders the report date as a plain calendar date.
type WeatherReportResponse struct {
	ID          string  `json:"id"`
	Location    string  `json:"location"`
	ReportDate  string  `json:"report_date"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	Conditions  string  `json:"conditions"`
	CreatedAt   string  `json:"created_at"`
}

func (w *WeatherReport) ToResponse() WeatherReportResponse {
	return WeatherReportResponse{
		ID:          w.ID.String(),
		Location:    w.Location,
		ReportDate:  w.ReportDate.Format("2006-01-02"),
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		Rainfall:    w.Rainfall,
		Conditions:  w.Conditions,
		CreatedAt:   w.CreatedAt.Format(timestampLayout),
	}
}
