package subscription

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettingsProvider_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when store is empty", func(t *testing.T) {
		db := new(MockSettingDB)
		db.On("GetMany", mock.Anything, settingKeys).Return(map[string]string{}, nil)
		p := NewSettingsProvider(db, nil, testDefaults, 0, zap.NewNop())

		s, err := p.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, testDefaults, *s)
	})

	t.Run("stored values override defaults", func(t *testing.T) {
		db := new(MockSettingDB)
		db.On("GetMany", mock.Anything, settingKeys).Return(map[string]string{
			model.SettingSubscriptionEnabled:     "false",
			model.SettingSubscriptionMonthlyFee:  "199000",
			model.SettingSubscriptionGracePeriod: "7",
		}, nil)
		p := NewSettingsProvider(db, nil, testDefaults, 0, zap.NewNop())

		s, err := p.Get(ctx)

		require.NoError(t, err)
		assert.False(t, s.Enabled)
		assert.Equal(t, int64(199000), s.MonthlyFee)
		assert.Equal(t, 7, s.GracePeriodDays)
		assert.Equal(t, testDefaults.FreeTrialDays, s.FreeTrialDays)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		db := new(MockSettingDB)
		db.On("GetMany", mock.Anything, settingKeys).Return(map[string]string{
			model.SettingSubscriptionMonthlyFee:  "lots",
			model.SettingSubscriptionGracePeriod: "-2",
		}, nil)
		p := NewSettingsProvider(db, nil, testDefaults, 0, zap.NewNop())

		s, err := p.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, testDefaults.MonthlyFee, s.MonthlyFee)
		assert.Equal(t, testDefaults.GracePeriodDays, s.GracePeriodDays)
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		db := new(MockSettingDB)
		cache := new(MockCache)
		cached := model.SubscriptionSettings{Enabled: true, MonthlyFee: 1, GracePeriodDays: 1}
		raw, _ := json.Marshal(cached)
		cache.On("Get", mock.Anything, settingsCacheKey).Return(raw, nil)
		p := NewSettingsProvider(db, cache, testDefaults, time.Minute, zap.NewNop())

		s, err := p.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, cached, *s)
		db.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		db := new(MockSettingDB)
		cache := new(MockCache)
		db.On("GetMany", mock.Anything, settingKeys).Return(map[string]string{}, nil)
		cache.On("Get", mock.Anything, settingsCacheKey).Return(nil, outbound.ErrCacheMiss)
		cache.On("Set", mock.Anything, settingsCacheKey, mock.Anything, time.Minute).Return(nil)
		p := NewSettingsProvider(db, cache, testDefaults, time.Minute, zap.NewNop())

		_, err := p.Get(ctx)

		require.NoError(t, err)
		cache.AssertExpectations(t)
	})
}

func TestSettingsProvider_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("writes fields and invalidates cache", func(t *testing.T) {
		db := new(MockSettingDB)
		cache := new(MockCache)
		fee := int64(350000)
		enabled := true

		db.On("Upsert", mock.Anything, mock.MatchedBy(func(rows []*model.SystemSetting) bool {
			return len(rows) == 2 &&
				rows[0].Key == model.SettingSubscriptionEnabled && rows[0].Value == "true" &&
				rows[1].Key == model.SettingSubscriptionMonthlyFee && rows[1].Value == "350000"
		})).Return(nil)
		cache.On("Delete", mock.Anything, settingsCacheKey).Return(nil)
		cache.On("Get", mock.Anything, settingsCacheKey).Return(nil, outbound.ErrCacheMiss)
		db.On("GetMany", mock.Anything, settingKeys).Return(map[string]string{
			model.SettingSubscriptionEnabled:    "true",
			model.SettingSubscriptionMonthlyFee: "350000",
		}, nil)
		cache.On("Set", mock.Anything, settingsCacheKey, mock.Anything, time.Minute).Return(nil)
		p := NewSettingsProvider(db, cache, testDefaults, time.Minute, zap.NewNop())

		s, err := p.Update(ctx, &model.SettingsInput{Enabled: &enabled, MonthlyFee: &fee})

		require.NoError(t, err)
		assert.Equal(t, int64(350000), s.MonthlyFee)
		cache.AssertCalled(t, "Delete", mock.Anything, settingsCacheKey)
	})

	t.Run("negative grace rejected", func(t *testing.T) {
		db := new(MockSettingDB)
		grace := -1
		p := NewSettingsProvider(db, nil, testDefaults, 0, zap.NewNop())

		_, err := p.Update(ctx, &model.SettingsInput{GracePeriodDays: &grace})

		assert.ErrorIs(t, err, ErrInvalidRequest)
		db.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
