package handler

import (
	"time"

	"kkp-asta/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the owner's financial summaries. All three endpoints
// take optional start_date and end_date query parameters.
type ReportHandler struct {
	service service.ReportService
	loc     *time.Location
}

func NewReportHandler(s service.ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{service: s, loc: loc}
}

// GET /api/v1/reports/laba-rugi
func (h *ReportHandler) ProfitAndLoss(c *fiber.Ctx) error {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.ProfitAndLoss(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/arus-kas
func (h *ReportHandler) CashFlow(c *fiber.Ctx) error {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.CashFlow(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/rekap
func (h *ReportHandler) Recap(c *fiber.Ctx) error {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.Recap(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
