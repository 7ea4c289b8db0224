package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/middleware"
	"kkp-asta/internal/model"
	"kkp-asta/pkg/logger"
	"kkp-asta/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the error taxonomy onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error(), "fields": ve.Fields})
	case errors.Is(err, apperror.ErrTypeNotFound), errors.Is(err, apperror.ErrItemNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	case errors.Is(err, apperror.ErrConstraintViolation):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperror.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperror.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperror.ErrStorageUnavailable):
		logger.Error("storage unavailable", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Service temporarily unavailable, please retry"})
	}
	logger.Error("unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// getUserID returns the authenticated user id, or "system" outside protected routes.
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return id, nil
}

// paramUUID parses the :id route parameter.
func paramUUID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, &apperror.ValidationError{
			Message: "invalid id",
			Fields:  []apperror.FieldError{{Field: "id", Tag: "uuid"}},
		}
	}
	return id, nil
}

// parsePeriod reads start_date and end_date (YYYY-MM-DD) as calendar dates in loc.
func parsePeriod(c *fiber.Ctx, loc *time.Location) (model.Period, error) {
	var p model.Period
	for _, f := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &p.StartDate},
		{"end_date", &p.EndDate},
	} {
		raw := strings.TrimSpace(c.Query(f.key))
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation(model.DateLayout, raw, loc)
		if err != nil {
			return p, &apperror.ValidationError{
				Message: f.key + " must be a date in YYYY-MM-DD format",
				Fields:  []apperror.FieldError{{Field: f.key, Tag: "datetime", Param: model.DateLayout}},
			}
		}
		*f.dst = &d
	}
	return p, nil
}

func queryInt(c *fiber.Ctx, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func fieldErrors(errs []*validator.ErrorResponse) error {
	ve := &apperror.ValidationError{Message: "request rejected"}
	for _, e := range errs {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: e.FailedField, Tag: e.Tag, Param: e.Value})
	}
	return ve
}
