package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const settingsCacheKey = "settings:landlord_subscription"

var settingKeys = []string{
	model.SettingSubscriptionEnabled,
	model.SettingSubscriptionMonthlyFee,
	model.SettingSubscriptionTrialDays,
	model.SettingSubscriptionGracePeriod,
}

// SettingsProvider builds the typed subscription settings from the
// system_settings store, falling back to configured defaults.
type SettingsProvider struct {
	db       outbound.SettingDatabasePort
	cache    outbound.CachePort
	defaults model.SubscriptionSettings
	ttl      time.Duration
	logger   *zap.Logger
}

// NewSettingsProvider creates a new settings provider. cache may be nil.
func NewSettingsProvider(
	db outbound.SettingDatabasePort,
	cache outbound.CachePort,
	defaults model.SubscriptionSettings,
	ttl time.Duration,
	logger *zap.Logger,
) *SettingsProvider {
	return &SettingsProvider{
		db:       db,
		cache:    cache,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
	}
}

// Get returns the current settings.
func (p *SettingsProvider) Get(ctx context.Context) (*model.SubscriptionSettings, error) {
	if cached, ok := p.fromCache(ctx); ok {
		return cached, nil
	}

	values, err := p.db.GetMany(ctx, settingKeys)
	if err != nil {
		return nil, err
	}
	settings := p.parse(values)

	p.store(ctx, settings)
	return settings, nil
}

// Update writes the provided fields and returns the resulting settings.
func (p *SettingsProvider) Update(ctx context.Context, in *model.SettingsInput) (*model.SubscriptionSettings, error) {
	if in == nil {
		return nil, ErrInvalidRequest
	}

	var rows []*model.SystemSetting
	put := func(key, value string) {
		rows = append(rows, &model.SystemSetting{Key: key, Value: value})
	}
	if in.Enabled != nil {
		put(model.SettingSubscriptionEnabled, strconv.FormatBool(*in.Enabled))
	}
	if in.MonthlyFee != nil {
		if *in.MonthlyFee < 0 {
			return nil, ErrInvalidRequest
		}
		put(model.SettingSubscriptionMonthlyFee, strconv.FormatInt(*in.MonthlyFee, 10))
	}
	if in.FreeTrialDays != nil {
		if *in.FreeTrialDays < 0 {
			return nil, ErrInvalidRequest
		}
		put(model.SettingSubscriptionTrialDays, strconv.Itoa(*in.FreeTrialDays))
	}
	if in.GracePeriodDays != nil {
		if *in.GracePeriodDays < 0 {
			return nil, ErrInvalidRequest
		}
		put(model.SettingSubscriptionGracePeriod, strconv.Itoa(*in.GracePeriodDays))
	}

	if len(rows) > 0 {
		if err := p.db.Upsert(ctx, rows); err != nil {
			return nil, err
		}
		p.invalidate(ctx)
	}

	return p.Get(ctx)
}

func (p *SettingsProvider) parse(values map[string]string) *model.SubscriptionSettings {
	s := p.defaults

	if v, ok := values[model.SettingSubscriptionEnabled]; ok {
		if b, err := cast.ToBoolE(v); err == nil {
			s.Enabled = b
		} else {
			p.invalidValue(model.SettingSubscriptionEnabled, v, err)
		}
	}
	if v, ok := values[model.SettingSubscriptionMonthlyFee]; ok {
		if n, err := cast.ToInt64E(v); err == nil && n >= 0 {
			s.MonthlyFee = n
		} else {
			p.invalidValue(model.SettingSubscriptionMonthlyFee, v, err)
		}
	}
	if v, ok := values[model.SettingSubscriptionTrialDays]; ok {
		if n, err := cast.ToIntE(v); err == nil && n >= 0 {
			s.FreeTrialDays = n
		} else {
			p.invalidValue(model.SettingSubscriptionTrialDays, v, err)
		}
	}
	if v, ok := values[model.SettingSubscriptionGracePeriod]; ok {
		if n, err := cast.ToIntE(v); err == nil && n >= 0 {
			s.GracePeriodDays = n
		} else {
			p.invalidValue(model.SettingSubscriptionGracePeriod, v, err)
		}
	}

	return &s
}

func (p *SettingsProvider) invalidValue(key, value string, err error) {
	fields := []zap.Field{zap.String("key", key), zap.String("value", value)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	p.logger.Warn("ignoring invalid setting value, using default", fields...)
}

func (p *SettingsProvider) fromCache(ctx context.Context) (*model.SubscriptionSettings, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, err := p.cache.Get(ctx, settingsCacheKey)
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			p.logger.Warn("settings cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var s model.SubscriptionSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		p.logger.Warn("settings cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return &s, true
}

func (p *SettingsProvider) store(ctx context.Context, s *model.SubscriptionSettings) {
	if p.cache == nil || p.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, settingsCacheKey, raw, p.ttl); err != nil {
		p.logger.Warn("settings cache write failed", zap.Error(err))
	}
}

func (p *SettingsProvider) invalidate(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, settingsCacheKey); err != nil {
		p.logger.Warn("settings cache invalidation failed", zap.Error(err))
	}
}
