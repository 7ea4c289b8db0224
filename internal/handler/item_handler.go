package handler

import (
	"kkp-asta/internal/apperror"
	"kkp-asta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

// GetItems lists items, optionally filtered by ?category_id=
func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, &apperror.ValidationError{
				Message: "invalid category_id",
				Fields:  []apperror.FieldError{{Field: "category_id", Tag: "uuid"}},
			})
		}
		categoryID = &id
	}

	items, err := h.service.FindAll(c.UserContext(), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramUUID(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Create(c.UserContext(), req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramUUID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Update(c.UserContext(), id, req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramUUID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}
