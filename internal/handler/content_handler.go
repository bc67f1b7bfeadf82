package handler

import (
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	weather service.WeatherService
	content service.ContentService
	ai      service.AIService
}

func NewContentHandler(weather service.WeatherService, content service.ContentService, ai service.AIService) *ContentHandler {
	return &ContentHandler{weather: weather, content: content, ai: ai}
}

type FetchWeatherRequest struct {
	Location string `json:"location"`
}

type AskRequest struct {
	Question string `json:"question"`
}

// GET /api/v1/weather-reports
func (h *ContentHandler) GetWeatherReports(c *fiber.Ctx) error {
	reports, err := h.weather.ListReports(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	res := make([]model.WeatherReportResponse, 0, len(reports))
	for i := range reports {
		res = append(res, reports[i].ToResponse())
	}
	return c.JSON(res)
}

// POST /api/v1/weather-reports/fetch
func (h *ContentHandler) FetchWeather(c *fiber.Ctx) error {
	var req FetchWeatherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.weather.FetchAndStore(c.UserContext(), req.Location)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(report.ToResponse())
}

// GET /api/v1/updates
func (h *ContentHandler) GetUpdates(c *fiber.Ctx) error {
	updates, err := h.content.ListUpdates(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if updates == nil {
		updates = []model.FarmingUpdate{}
	}
	return c.JSON(updates)
}

// POST /api/v1/ask-ai
func (h *ContentHandler) AskAI(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	answer, err := h.ai.Ask(c.UserContext(), req.Question)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"answer": answer})
}
