package repository

import (
	"context"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// SettingsRepository reads the mill configuration row. When the row is
// missing the implementation returns entity.DefaultSettings.
type SettingsRepository interface {
	Get(ctx context.Context) (entity.MillSettings, error)
}
