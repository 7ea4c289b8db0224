package service

import (
	"context"

	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/logger"
)

// TransactionTypeView is a transaction type together with its stock effect.
type TransactionTypeView struct {
	model.TransactionType
	StockEffect model.StockEffect `json:"stock_effect"`
}

type TransactionTypeService interface {
	FindAll(ctx context.Context) ([]TransactionTypeView, error)
	// Sync writes the configured taxonomy into storage.
	Sync(ctx context.Context) error
}

type transactionTypeService struct {
	repo     repository.TransactionTypeRepository
	taxonomy *model.Taxonomy
}

func NewTransactionTypeService(repo repository.TransactionTypeRepository, taxonomy *model.Taxonomy) TransactionTypeService {
	return &transactionTypeService{repo: repo, taxonomy: taxonomy}
}

func (s *transactionTypeService) FindAll(ctx context.Context) ([]TransactionTypeView, error) {
	types, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionTypeView, len(types))
	for i, t := range types {
		out[i] = TransactionTypeView{TransactionType: t, StockEffect: s.taxonomy.Effect(t.Name)}
	}
	return out, nil
}

func (s *transactionTypeService) Sync(ctx context.Context) error {
	types := s.taxonomy.TransactionTypes()
	if err := s.repo.Sync(ctx, types); err != nil {
		return err
	}
	logger.Info("transaction types synced", "count", len(types))
	return nil
}
