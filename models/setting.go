package models

import "time"

// Schlüssel der vom Scoring-Kern konsumierten Platform-Settings.
const (
	SettingAutoApproveThreshold  = "auto_approve_threshold"
	SettingAutoHideThreshold     = "auto_hide_threshold"
	SettingMinVotesForAutoAction = "min_votes_for_auto_action"
	SettingWeeklyDistributionPct = "weekly_distribution_percentage"
	SettingMaxReputationWeight   = "max_reputation_weight"
)

// PlatformSetting ist ein Key-Value-Eintrag für extern konfigurierbare Werte.
// Fehlende Pflicht-Keys sind ein fataler Startup-Fehler (kein stilles Defaulting).
type PlatformSetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UpdatedAt time.Time `json:"updated_at"`

	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (PlatformSetting) TableName() string {
	return "platform_settings"
}
