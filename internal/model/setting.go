package model

import "time"

// Keys of the subscription settings stored in system_settings.
const (
	SettingSubscriptionEnabled     = "landlord_subscription_enabled"
	SettingSubscriptionMonthlyFee  = "landlord_subscription_monthly_fee"
	SettingSubscriptionTrialDays   = "landlord_subscription_free_trial_days"
	SettingSubscriptionGracePeriod = "landlord_subscription_grace_period_days"
)

// SystemSetting is a global key-value configuration row.
type SystemSetting struct {
	Key       string    `json:"key" gorm:"primaryKey;size:100"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (SystemSetting) TableName() string {
	return "system_settings"
}
