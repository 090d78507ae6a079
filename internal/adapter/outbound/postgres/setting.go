package postgres

import (
	"context"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingAdapter implements outbound.SettingDatabasePort.
type settingAdapter struct {
	db *gorm.DB
}

// NewSettingAdapter creates a new system setting database adapter.
func NewSettingAdapter(db *gorm.DB) outbound.SettingDatabasePort {
	return &settingAdapter{db: db}
}

func (a *settingAdapter) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	var rows []*model.SystemSetting
	if err := conn(ctx, a.db).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (a *settingAdapter) Upsert(ctx context.Context, settings []*model.SystemSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return conn(ctx, a.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&settings).Error
}

// Compile-time check
var _ outbound.SettingDatabasePort = (*settingAdapter)(nil)
