package handler

import (
	"kkp-asta/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionTypeHandler struct {
	service service.TransactionTypeService
}

func NewTransactionTypeHandler(s service.TransactionTypeService) *TransactionTypeHandler {
	return &TransactionTypeHandler{service: s}
}

// GetTransactionTypes lists the configured types with their stock effect
// GET /api/v1/transaction-types
func (h *TransactionTypeHandler) GetTransactionTypes(c *fiber.Ctx) error {
	types, err := h.service.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": types})
}
