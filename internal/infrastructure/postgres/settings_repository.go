package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo reads the single mill_settings row. A missing row
// yields the built-in defaults so a fresh database works out of the
// box.
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context) (entity.MillSettings, error) {
	query := `
		SELECT mill_name, address, phone, email, gst_number, currency,
		       milling_recovery_rate, owner_salary_percentage, target_profit_margin,
		       gst_rate, production_tolerance_pct, default_rice_grade,
		       default_bag_weight_kg, default_expiry_days, low_stock_threshold_kg,
		       invoice_prefix, batch_prefix, purchase_prefix, sales_order_prefix,
		       number_width
		FROM mill_settings
		LIMIT 1`
	var s entity.MillSettings
	err := r.q.QueryRow(ctx, query).Scan(
		&s.MillName, &s.Address, &s.Phone, &s.Email, &s.GSTNumber, &s.Currency,
		&s.MillingRecoveryRate, &s.OwnerSalaryPercentage, &s.TargetProfitMargin,
		&s.GSTRate, &s.ProductionTolerancePct, &s.DefaultRiceGrade,
		&s.DefaultBagWeightKg, &s.DefaultExpiryDays, &s.LowStockThresholdKg,
		&s.InvoicePrefix, &s.BatchPrefix, &s.PurchasePrefix, &s.SalesOrderPrefix,
		&s.NumberWidth,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.DefaultSettings(), nil
		}
		return entity.MillSettings{}, fmt.Errorf("get mill settings: %w", err)
	}
	return s, nil
}
