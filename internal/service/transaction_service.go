package service

import (
	"context"
	"errors"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/metrics"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventTransactionPosted = "transaction_posted"

// Notifier receives committed ledger events. The websocket hub implements it.
type Notifier interface {
	Publish(eventType string, data interface{})
}

type TransactionService interface {
	Post(ctx context.Context, req PostTransactionRequest) (*model.Transaction, error)
	FindAll(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

// PostTransactionRequest is one user-initiated ledger event. Amount is
// optional and defaults to zero.
type PostTransactionRequest struct {
	UserID       uuid.UUID
	TypeName     string
	Description  string
	Amount       *decimal.Decimal
	ReceiptPhoto *string
	Items        []TransactionLine
}

type TransactionLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

type transactionService struct {
	ledger   repository.Ledger
	txRepo   repository.TransactionRepository
	taxonomy *model.Taxonomy
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewTransactionService(
	ledger repository.Ledger,
	txRepo repository.TransactionRepository,
	taxonomy *model.Taxonomy,
	notifier Notifier,
	m *metrics.Metrics,
) TransactionService {
	return &transactionService{
		ledger:   ledger,
		txRepo:   txRepo,
		taxonomy: taxonomy,
		notifier: notifier,
		metrics:  m,
	}
}

// Post writes the transaction row, one movement per item line and the stock
// adjustments in a single storage transaction. Any failure leaves no trace.
func (s *transactionService) Post(ctx context.Context, req PostTransactionRequest) (*model.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.PostDuration.Observe(time.Since(start).Seconds()) }()

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			s.metrics.PostFailures.WithLabelValues("validation").Inc()
			return nil, &apperror.ValidationError{
				Message: "item quantity must be positive",
				Fields:  []apperror.FieldError{{Field: "Items.Quantity", Tag: "gt", Param: "0"}},
			}
		}
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}
	effect := s.taxonomy.Effect(req.TypeName)
	actor := req.UserID.String()

	var posted *model.Transaction
	err := s.ledger.Atomic(ctx, func(tx repository.LedgerTx) error {
		// 1. Resolve the type
		tt, err := tx.TransactionTypeByName(ctx, req.TypeName)
		if err != nil {
			return err
		}

		// 2. Header row
		tr := &model.Transaction{
			UserID:            req.UserID,
			TransactionTypeID: tt.ID,
			Description:       req.Description,
			Amount:            amount,
			ReceiptPhoto:      req.ReceiptPhoto,
		}
		if err := tx.InsertTransaction(ctx, tr); err != nil {
			return err
		}
		tr.TransactionType = tt

		// 3. Item lines move stock only for types with a direction
		if !effect.MovesStock() {
			posted = tr
			return nil
		}
		for _, line := range req.Items {
			item, err := tx.ItemByID(ctx, line.ItemID)
			if err != nil {
				return err
			}

			mv := &model.StockMovement{
				ItemID:        item.ID,
				TransactionID: tr.ID,
				MovementType:  effect.MovementType(),
				Quantity:      line.Quantity,
			}
			if err := tx.InsertStockMovement(ctx, mv); err != nil {
				return err
			}

			if item.IsTrackable {
				stock, err := tx.AdjustStock(ctx, item.ID, effect.Delta(line.Quantity), actor)
				if err != nil {
					return err
				}
				item.CurrentStock = stock
			}
			mv.Item = item
			tr.StockMovements = append(tr.StockMovements, *mv)
		}
		posted = tr
		return nil
	})
	if err != nil {
		s.metrics.PostFailures.WithLabelValues(failureReason(err)).Inc()
		if apperror.IsCallerFault(err) {
			logger.Warn("transaction rejected", "type", req.TypeName, "user_id", actor, "error", err)
		} else {
			logger.Error("transaction post failed", "type", req.TypeName, "user_id", actor, "error", err)
		}
		return nil, err
	}

	s.metrics.TransactionsPosted.WithLabelValues(req.TypeName).Inc()
	logger.Info("transaction posted",
		"id", posted.ID,
		"type", req.TypeName,
		"amount", posted.Amount.String(),
		"lines", len(posted.StockMovements),
		"user_id", actor,
	)
	s.publish(posted)

	return posted, nil
}

func (s *transactionService) publish(tr *model.Transaction) {
	if s.notifier == nil {
		return
	}
	lines := make([]map[string]interface{}, 0, len(tr.StockMovements))
	for _, mv := range tr.StockMovements {
		line := map[string]interface{}{
			"item_id":       mv.ItemID,
			"movement_type": mv.MovementType,
			"quantity":      mv.Quantity,
		}
		if mv.Item != nil {
			line["item_name"] = mv.Item.Name
			line["current_stock"] = mv.Item.CurrentStock
		}
		lines = append(lines, line)
	}
	typeName := ""
	if tr.TransactionType != nil {
		typeName = tr.TransactionType.Name
	}
	s.notifier.Publish(EventTransactionPosted, map[string]interface{}{
		"id":               tr.ID,
		"transaction_type": typeName,
		"amount":           tr.Amount,
		"user_id":          tr.UserID,
		"created_at":       tr.CreatedAt,
		"items":            lines,
	})
}

func (s *transactionService) FindAll(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	if err := validatePeriod(filter.Period); err != nil {
		return nil, err
	}
	return s.txRepo.FindAll(ctx, filter)
}

func (s *transactionService) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

func failureReason(err error) string {
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, apperror.ErrTypeNotFound):
		return "type_not_found"
	case errors.Is(err, apperror.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, apperror.ErrConstraintViolation):
		return "constraint"
	}
	return "storage"
}
