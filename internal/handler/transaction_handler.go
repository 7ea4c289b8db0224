package handler

import (
	"time"

	"kkp-asta/internal/model"
	"kkp-asta/internal/service"
	"kkp-asta/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// PostTransactionBody is the JSON accepted by POST /transactions. The poster
// takes the user from the token, never from the body.
type PostTransactionBody struct {
	TypeName     string                `json:"transaction_type" validate:"required,max=50"`
	Description  string                `json:"description" validate:"max=1000"`
	Amount       *decimal.Decimal      `json:"amount"`
	ReceiptPhoto *string               `json:"receipt_photo" validate:"omitempty,max=255"`
	Items        []TransactionLineBody `json:"items" validate:"omitempty,dive"`
}

type TransactionLineBody struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

func init() {
	validator.RegisterStructValidation(postTransactionRules, PostTransactionBody{})
}

// Amount is mandatory except for usage, which carries no cash value, and is
// never negative.
func postTransactionRules(sl validator.StructLevel) {
	body := sl.Current().Interface().(PostTransactionBody)
	if body.Amount == nil {
		if body.TypeName != model.TypePemakaian {
			sl.ReportError(body.Amount, "Amount", "amount", "required", "")
		}
		return
	}
	if body.Amount.IsNegative() {
		sl.ReportError(body.Amount, "Amount", "amount", "gte", "0")
	}
}

type TransactionHandler struct {
	service service.TransactionService
	loc     *time.Location
}

func NewTransactionHandler(s service.TransactionService, loc *time.Location) *TransactionHandler {
	return &TransactionHandler{service: s, loc: loc}
}

// CreateTransaction posts a ledger event
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return respondError(c, err)
	}

	var body PostTransactionBody
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c)
	}
	if errs := validator.ValidateStruct(&body); len(errs) > 0 {
		return respondError(c, fieldErrors(errs))
	}

	req := service.PostTransactionRequest{
		UserID:       userID,
		TypeName:     body.TypeName,
		Description:  body.Description,
		Amount:       body.Amount,
		ReceiptPhoto: body.ReceiptPhoto,
	}
	for _, line := range body.Items {
		req.Items = append(req.Items, service.TransactionLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	tr, err := h.service.Post(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": tr})
}

// GetTransactions lists transactions, newest first
// GET /api/v1/transactions?transaction_type=&start_date=&end_date=&limit=&offset=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	filter := model.TransactionFilter{
		TypeName: c.Query("transaction_type"),
		Period:   period,
		Limit:    queryInt(c, "limit", defaultPageSize, maxPageSize),
		Offset:   queryInt(c, "offset", 0, 0),
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}

	transactions, err := h.service.FindAll(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": transactions})
}

// GetTransaction returns one transaction with its movements
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c)
	if err != nil {
		return respondError(c, err)
	}
	tr, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": tr})
}
