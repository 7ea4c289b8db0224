package service

import (
	"context"
	"testing"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/config"
	"kkp-asta/internal/metrics"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Type string
	Data interface{}
}

type recordingNotifier struct {
	events []recordedEvent
}

func (n *recordingNotifier) Publish(eventType string, data interface{}) {
	n.events = append(n.events, recordedEvent{Type: eventType, Data: data})
}

type ledgerFixture struct {
	store    *memory.Store
	notifier *recordingNotifier
	posts    TransactionService
	reports  ReportService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	tax, err := config.LoadTaxonomy("")
	require.NoError(t, err)

	store := memory.NewSeeded(tax.TransactionTypes()...)
	notifier := &recordingNotifier{}
	m := metrics.New(prometheus.NewRegistry())

	return &ledgerFixture{
		store:    store,
		notifier: notifier,
		posts:    NewTransactionService(store, nil, tax, notifier, m),
		reports:  NewReportService(store, m),
	}
}

func (f *ledgerFixture) item(t *testing.T, name string, stock int, trackable bool) model.Item {
	t.Helper()
	return f.store.AddItem(model.Item{Name: name, CurrentStock: stock, IsTrackable: trackable})
}

func (f *ledgerFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	item, ok := f.store.Item(id)
	require.True(t, ok)
	return item.CurrentStock
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestPost_SaleDecreasesStock(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 20, true)
	gula := f.item(t, "Gula", 5, true)
	user := uuid.New()

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   user,
		TypeName: model.TypePenjualan,
		Amount:   amount(75000),
		Items: []TransactionLine{
			{ItemID: beras.ID, Quantity: 4},
			{ItemID: gula.ID, Quantity: 7},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, tr.ID)
	assert.False(t, tr.CreatedAt.IsZero())
	require.NotNil(t, tr.TransactionType)
	assert.Equal(t, model.TypePenjualan, tr.TransactionType.Name)
	require.Len(t, tr.StockMovements, 2)
	for _, mv := range tr.StockMovements {
		assert.Equal(t, model.MovementOut, mv.MovementType)
		assert.Equal(t, tr.ID, mv.TransactionID)
	}

	assert.Equal(t, 16, f.stock(t, beras.ID))
	assert.Equal(t, -2, f.stock(t, gula.ID), "stock has no floor")
	assert.Len(t, f.store.Transactions(), 1)
	assert.Len(t, f.store.Movements(), 2)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventTransactionPosted, f.notifier.events[0].Type)
}

func TestPost_PurchaseIncreasesStock(t *testing.T) {
	f := newLedgerFixture(t)
	kopi := f.item(t, "Kopi", 3, true)

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePembelian,
		Amount:   amount(40000),
		Items:    []TransactionLine{{ItemID: kopi.ID, Quantity: 12}},
	})
	require.NoError(t, err)

	require.Len(t, tr.StockMovements, 1)
	assert.Equal(t, model.MovementIn, tr.StockMovements[0].MovementType)
	assert.Equal(t, 15, f.stock(t, kopi.ID))
}

func TestPost_UsageWithoutAmount(t *testing.T) {
	f := newLedgerFixture(t)
	minyak := f.item(t, "Minyak", 10, true)

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePemakaian,
		Items:    []TransactionLine{{ItemID: minyak.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.True(t, tr.Amount.IsZero())
	assert.Equal(t, 7, f.stock(t, minyak.ID))
}

func TestPost_IncomeWithoutItems(t *testing.T) {
	f := newLedgerFixture(t)

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePemasukan,
		Amount:   amount(50000),
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(50000).Equal(tr.Amount))
	assert.Empty(t, tr.StockMovements)
	assert.Len(t, f.store.Transactions(), 1)
	assert.Empty(t, f.store.Movements())
}

func TestPost_NonTrackableItemKeepsStock(t *testing.T) {
	f := newLedgerFixture(t)
	jasa := f.item(t, "Jasa Antar", 0, false)

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePenjualan,
		Amount:   amount(10000),
		Items:    []TransactionLine{{ItemID: jasa.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Len(t, tr.StockMovements, 1)
	assert.Equal(t, 0, f.stock(t, jasa.ID))
}

func TestPost_NoStockEffectIgnoresLines(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 10, true)

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypeGaji,
		Amount:   amount(20000),
		Items: []TransactionLine{
			{ItemID: beras.ID, Quantity: 1},
			{ItemID: uuid.New(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, tr.StockMovements)
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 10, f.stock(t, beras.ID))
}

func TestPost_UnknownTypeWritesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 10, true)

	_, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: "hibah",
		Amount:   amount(1000),
		Items:    []TransactionLine{{ItemID: beras.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperror.ErrTypeNotFound)
	assert.True(t, apperror.IsCallerFault(err))

	assert.Empty(t, f.store.Transactions())
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 10, f.stock(t, beras.ID))
	assert.Empty(t, f.notifier.events)
}

func TestPost_MissingItemRollsBack(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 10, true)

	_, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePenjualan,
		Amount:   amount(30000),
		Items: []TransactionLine{
			{ItemID: beras.ID, Quantity: 2},
			{ItemID: uuid.New(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, apperror.ErrItemNotFound)

	assert.Empty(t, f.store.Transactions())
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 10, f.stock(t, beras.ID), "first line must be undone")
}

func TestPost_StorageFailureRollsBack(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.FailInsertMovementAfter = 1
	beras := f.item(t, "Beras", 10, true)
	gula := f.item(t, "Gula", 10, true)

	_, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePembelian,
		Amount:   amount(5000),
		Items: []TransactionLine{
			{ItemID: beras.ID, Quantity: 2},
			{ItemID: gula.ID, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, apperror.ErrStorageUnavailable)
	assert.False(t, apperror.IsCallerFault(err))

	assert.Empty(t, f.store.Transactions())
	assert.Equal(t, 10, f.stock(t, beras.ID))
	assert.Equal(t, 10, f.stock(t, gula.ID))
}

func TestPost_RejectsNonPositiveQuantity(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 10, true)

	_, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePenjualan,
		Amount:   amount(1000),
		Items:    []TransactionLine{{ItemID: beras.ID, Quantity: 0}},
	})

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, f.store.Transactions())
}

func TestPost_CanceledContext(t *testing.T) {
	f := newLedgerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.posts.Post(ctx, PostTransactionRequest{UserID: uuid.New(), TypeName: model.TypePemasukan, Amount: amount(1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.store.Transactions())
}

func TestPost_TimestampsUseStoreClock(t *testing.T) {
	f := newLedgerFixture(t)
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return at })

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{UserID: uuid.New(), TypeName: model.TypePemasukan})
	require.NoError(t, err)
	assert.Equal(t, at, tr.CreatedAt)
}

func TestPost_PublishesStoredStock(t *testing.T) {
	f := newLedgerFixture(t)
	beras := f.item(t, "Beras", 10, true)
	f.store.ConcurrentAdjust = func(uuid.UUID) int { return -4 }

	tr, err := f.posts.Post(context.Background(), PostTransactionRequest{
		UserID:   uuid.New(),
		TypeName: model.TypePenjualan,
		Amount:   amount(30000),
		Items:    []TransactionLine{{ItemID: beras.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, f.stock(t, beras.ID))
	require.Len(t, tr.StockMovements, 1)
	assert.Equal(t, 3, tr.StockMovements[0].Item.CurrentStock)

	require.Len(t, f.notifier.events, 1)
	data := f.notifier.events[0].Data.(map[string]interface{})
	lines := data["items"].([]map[string]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0]["current_stock"])
}
