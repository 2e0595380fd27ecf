package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/reporting"
)

// ReportHandler serves the read-only report endpoints.
type ReportHandler struct {
	uc *reporting.UseCase
}

func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// MillEconomics compiles the consolidated economics report. Every
// parameter is optional; omitted ones fall back to mill settings.
// GET /api/reports/mill-economics?startDate=&endDate=&targetRiceKg=&desiredMarginPerKg=&recoveryRate=&ownerSalaryPct=&scrapPct=&usefulLifeYears=
func (h *ReportHandler) MillEconomics(c *fiber.Ctx) error {
	startDate, err := queryDateStrict(c, "startDate")
	if err != nil {
		return respondError(c, err)
	}
	endDate, err := queryDateStrict(c, "endDate")
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.uc.Compile(c.Context(), reporting.ReportParams{
		StartDate:          startDate,
		EndDate:            endDate,
		TargetRiceKg:       queryFloat(c, "targetRiceKg"),
		DesiredMarginPerKg: queryFloat(c, "desiredMarginPerKg"),
		RecoveryRate:       queryFloat(c, "recoveryRate"),
		OwnerSalaryPct:     queryFloat(c, "ownerSalaryPct"),
		ScrapPct:           queryFloat(c, "scrapPct"),
		UsefulLifeYears:    queryInt(c, "usefulLifeYears", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// DailyProduction summarizes the batches of one day.
// GET /api/reports/daily-production?date=
func (h *ReportHandler) DailyProduction(c *fiber.Ctx) error {
	day, err := queryDateStrict(c, "date")
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.uc.DailyProduction(c.Context(), day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ProfitLoss returns revenue minus expenses for a window.
// GET /api/reports/profit-loss?startDate=&endDate=
func (h *ReportHandler) ProfitLoss(c *fiber.Ctx) error {
	startDate, err := queryDateStrict(c, "startDate")
	if err != nil {
		return respondError(c, err)
	}
	endDate, err := queryDateStrict(c, "endDate")
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.uc.ProfitLoss(c.Context(), startDate, endDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
