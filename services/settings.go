package services

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stumble-higher/models"
)

// Thresholds bündelt die vom Scoring-Kern konsumierten Platform-Settings.
type Thresholds struct {
	AutoApproveThreshold  float64
	AutoHideThreshold     float64
	MinVotesForAutoAction int
	WeeklyDistributionPct float64
	MaxReputationWeight   float64
}

// SettingsService lädt Platform-Settings aus der Datenbank.
type SettingsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewSettingsService erstellt eine neue Instanz des SettingsService.
func NewSettingsService(db *gorm.DB, logger *zap.Logger) *SettingsService {
	return &SettingsService{DB: db, Logger: logger}
}

// LoadThresholds liest alle Pflicht-Settings. Fehlt ein Key, gibt es einen Fehler –
// der Scorer darf nicht still auf permissive Werte zurückfallen.
func (s *SettingsService) LoadThresholds() (*Thresholds, error) {
	var rows []models.PlatformSetting
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	t := &Thresholds{}
	var err error
	if t.AutoApproveThreshold, err = requireFloat(values, models.SettingAutoApproveThreshold); err != nil {
		return nil, err
	}
	if t.AutoHideThreshold, err = requireFloat(values, models.SettingAutoHideThreshold); err != nil {
		return nil, err
	}
	if t.WeeklyDistributionPct, err = requireFloat(values, models.SettingWeeklyDistributionPct); err != nil {
		return nil, err
	}
	if t.MaxReputationWeight, err = requireFloat(values, models.SettingMaxReputationWeight); err != nil {
		return nil, err
	}
	minVotes, err := requireFloat(values, models.SettingMinVotesForAutoAction)
	if err != nil {
		return nil, err
	}
	t.MinVotesForAutoAction = int(minVotes)

	return t, nil
}

func requireFloat(values map[string]string, key string) (float64, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("platform setting %q fehlt", key)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("platform setting %q ist keine Zahl: %w", key, err)
	}
	return f, nil
}
