// Package memory is an in-process implementation of the ledger and report
// repositories. Atomic works on a copy of the state and swaps it in only when
// the callback succeeds, so rollback semantics match the SQL store.
package memory

import (
	"context"
	"sync"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type state struct {
	types        map[string]model.TransactionType
	items        map[uuid.UUID]model.Item
	transactions []model.Transaction
	movements    []model.StockMovement
}

func (s *state) clone() *state {
	c := &state{
		types:        make(map[string]model.TransactionType, len(s.types)),
		items:        make(map[uuid.UUID]model.Item, len(s.items)),
		transactions: append([]model.Transaction(nil), s.transactions...),
		movements:    append([]model.StockMovement(nil), s.movements...),
	}
	for k, v := range s.types {
		c.types[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

type Store struct {
	mu     sync.Mutex
	st     *state
	nextID uint
	now    func() time.Time

	// FailInsertMovementAfter makes InsertStockMovement fail once this many
	// movements have been written inside a single Atomic call. Zero disables it.
	FailInsertMovementAfter int

	// ConcurrentAdjust, when set, returns a stock change committed by another
	// writer between ItemByID and AdjustStock. It is applied before delta.
	ConcurrentAdjust func(itemID uuid.UUID) int
}

var (
	_ repository.Ledger           = (*Store)(nil)
	_ repository.ReportRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		st: &state{
			types: map[string]model.TransactionType{},
			items: map[uuid.UUID]model.Item{},
		},
		now: time.Now,
	}
}

// NewSeeded returns a store holding the given transaction types.
func NewSeeded(types ...model.TransactionType) *Store {
	s := New()
	for _, t := range types {
		s.AddType(t)
	}
	return s
}

// SetClock overrides the timestamp source used for new rows.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) AddType(t model.TransactionType) model.TransactionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.st.types[t.Name] = t
	return t
}

func (s *Store) AddItem(item model.Item) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.st.items[item.ID] = item
	return item
}

func (s *Store) Item(id uuid.UUID) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.st.items[id]
	return item, ok
}

func (s *Store) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.st.transactions...)
}

func (s *Store) Movements() []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockMovement(nil), s.st.movements...)
}

// Atomic serialises all ledger writes. fn sees a private copy of the state.
func (s *Store) Atomic(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := &memTx{
		st:        s.st.clone(),
		now:       s.now,
		failAfter: s.FailInsertMovementAfter,
		drift:     s.ConcurrentAdjust,
	}
	if err := fn(work); err != nil {
		return err
	}
	s.st = work.st
	return nil
}

func (s *Store) SumAmounts(ctx context.Context, period model.Period, buckets []model.AmountBucket) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	typeNames := make(map[uint]string, len(s.st.types))
	for name, t := range s.st.types {
		typeNames[t.ID] = name
	}

	out := make(map[string]decimal.Decimal, len(buckets))
	for _, b := range buckets {
		out[b.Name] = decimal.Zero
	}
	for _, t := range s.st.transactions {
		if !period.Contains(t.CreatedAt) {
			continue
		}
		name := typeNames[t.TransactionTypeID]
		for _, b := range buckets {
			if contains(b.TypeNames, name) {
				out[b.Name] = out[b.Name].Add(t.Amount)
			}
		}
	}
	return out, nil
}

type memTx struct {
	st        *state
	now       func() time.Time
	failAfter int
	inserted  int
	drift     func(uuid.UUID) int
}

func (t *memTx) TransactionTypeByName(_ context.Context, name string) (*model.TransactionType, error) {
	tt, ok := t.st.types[name]
	if !ok {
		return nil, apperror.ErrTypeNotFound
	}
	return &tt, nil
}

func (t *memTx) ItemByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := t.st.items[id]
	if !ok {
		return nil, apperror.ErrItemNotFound
	}
	return &item, nil
}

func (t *memTx) InsertTransaction(_ context.Context, tr *model.Transaction) error {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = t.now()
	}
	t.st.transactions = append(t.st.transactions, *tr)
	return nil
}

func (t *memTx) InsertStockMovement(_ context.Context, m *model.StockMovement) error {
	if t.failAfter > 0 && t.inserted >= t.failAfter {
		return apperror.ErrStorageUnavailable
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t.now()
	}
	t.st.movements = append(t.st.movements, *m)
	t.inserted++
	return nil
}

func (t *memTx) AdjustStock(_ context.Context, itemID uuid.UUID, delta int, updatedBy string) (int, error) {
	item, ok := t.st.items[itemID]
	if !ok {
		return 0, apperror.ErrItemNotFound
	}
	if t.drift != nil {
		item.CurrentStock += t.drift(itemID)
	}
	item.CurrentStock += delta
	item.UpdatedBy = updatedBy
	t.st.items[itemID] = item
	return item.CurrentStock, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
