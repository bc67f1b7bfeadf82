package handler

import (
	"bytes"
	"errors"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// currentUser returns the account set by middleware.RequireAuth.
func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}

// parseID reads the :id path param as a UUID
func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var serr *service.Error
	if !errors.As(err, &serr) {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	switch serr.Kind {
	case service.KindValidation:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": serr.Message, "code": serr.Code})
	case service.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": serr.Message, "code": serr.Code})
	case service.KindUnauthenticated:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": serr.Message, "code": serr.Code})
	case service.KindForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": serr.Message, "code": serr.Code})
	case service.KindConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": serr.Message, "code": serr.Code})
	case service.KindUpstream:
		status := serr.Status
		if status == 0 {
			status = fiber.StatusInternalServerError
		}
		if len(serr.Body) > 0 {
			// Provider body is passed through untouched
			trimmed := bytes.TrimSpace(serr.Body)
			if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			}
			return c.Status(status).Send(serr.Body)
		}
		return c.Status(status).JSON(fiber.Map{"error": serr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": serr.Error()})
	}
}

// ErrorHandler renders framework errors (unknown routes, bad methods) in the API's error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
