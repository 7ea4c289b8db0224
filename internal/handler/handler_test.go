package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"kkp-asta/internal/middleware"
	"kkp-asta/internal/model"
	"kkp-asta/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Post(ctx context.Context, req service.PostTransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) FindAll(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionService) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ProfitAndLoss(ctx context.Context, period model.Period) (*model.ProfitAndLoss, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfitAndLoss), args.Error(1)
}

func (m *MockReportService) CashFlow(ctx context.Context, period model.Period) (*model.CashFlow, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashFlow), args.Error(1)
}

func (m *MockReportService) Recap(ctx context.Context, period model.Period) (*model.Recap, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recap), args.Error(1)
}

// fakeAuth stands in for RequireAuth: the X-Test-User and X-Test-Role
// headers become the authenticated identity.
func fakeAuth(c *fiber.Ctx) error {
	id := c.Get("X-Test-User")
	if id == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
	}
	c.Locals(middleware.LocalUserID, id)
	c.Locals(middleware.LocalUserRole, c.Get("X-Test-Role"))
	return c.Next()
}

func newTestRouter(txSvc service.TransactionService, reportSvc service.ReportService) *fiber.App {
	app := fiber.New()
	r := &Router{
		Auth:            NewAuthHandler(nil),
		Category:        NewCategoryHandler(nil),
		Item:            NewItemHandler(nil),
		Transaction:     NewTransactionHandler(txSvc, time.UTC),
		TransactionType: NewTransactionTypeHandler(nil),
		Report:          NewReportHandler(reportSvc, time.UTC),
		Dashboard:       NewDashboardHandler(nil),
		User:            NewUserHandler(nil),
		RequireAuth:     fakeAuth,
	}
	r.Mount(app)
	return app
}

type testCaller struct {
	UserID uuid.UUID
	Role   model.Role
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, who *testCaller) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set("X-Test-User", who.UserID.String())
		req.Header.Set("X-Test-Role", string(who.Role))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}
