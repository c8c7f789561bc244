package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stumble-higher/models"
)

// Gewichte der Trending-Formel.
const (
	trendingQualityWeight = 0.4
	trendingViewsWeight   = 0.3
	trendingVotesWeight   = 0.2
	trendingRecencyWeight = 0.1
)

// RecencyBonus gibt den Frische-Bonus einer Resource zurück:
// 5.0 bei Alter <= 3 Tage, 2.0 bei <= 7 Tagen, 1.0 bei <= 30 Tagen, sonst 0.
func RecencyBonus(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	switch {
	case age <= 3*24*time.Hour:
		return 5.0
	case age <= 7*24*time.Hour:
		return 2.0
	case age <= 30*24*time.Hour:
		return 1.0
	default:
		return 0.0
	}
}

// TrendingScore berechnet den Trending-Score aus Quality-Score, Views und
// Votes der letzten 7 Tage sowie dem Frische-Bonus. Keine Normalisierung über
// Resources hinweg – die Werte sind nur relativ zueinander vergleichbar.
func TrendingScore(qualityScore float64, recentViews, recentVotes int, createdAt, now time.Time) float64 {
	return qualityScore*trendingQualityWeight +
		float64(recentViews)*trendingViewsWeight +
		float64(recentVotes)*trendingVotesWeight +
		RecencyBonus(createdAt, now)*trendingRecencyWeight
}

// TrendingService berechnet periodisch die Trending-Scores aller approved
// Resources neu. Idempotent: reine Funktion des aktuellen Tabellenstands.
type TrendingService struct {
	DB     *gorm.DB
	Logger *zap.Logger

	// Verhindert, dass sich der Batch-Lauf mit sich selbst überlappt.
	running sync.Mutex
}

// NewTrendingService erstellt eine neue Instanz des TrendingService.
func NewTrendingService(db *gorm.DB, logger *zap.Logger) *TrendingService {
	return &TrendingService{DB: db, Logger: logger}
}

// RecalculateAll berechnet den Trending-Score jeder approved Resource neu.
// Läuft bereits ein Durchlauf, kehrt der Aufruf sofort zurück.
func (s *TrendingService) RecalculateAll() (int, error) {
	if !s.running.TryLock() {
		s.Logger.Warn("Trending-Lauf übersprungen, vorheriger Lauf aktiv")
		return 0, nil
	}
	defer s.running.Unlock()

	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var resources []models.Resource
	if err := s.DB.Where("status = ?", models.StatusApproved).Find(&resources).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, r := range resources {
		var recentViews, recentVotes int64
		if err := s.DB.Model(&models.UserInteraction{}).
			Where("resource_id = ? AND interaction_type = ? AND created_at >= ?", r.ID, models.InteractionView, weekAgo).
			Count(&recentViews).Error; err != nil {
			return updated, err
		}
		if err := s.DB.Model(&models.Vote{}).
			Where("resource_id = ? AND created_at >= ?", r.ID, weekAgo).
			Count(&recentVotes).Error; err != nil {
			return updated, err
		}

		score := TrendingScore(r.QualityScore, int(recentViews), int(recentVotes), r.CreatedAt, now)
		if err := s.DB.Model(&models.Resource{}).Where("id = ?", r.ID).
			Update("trending_score", score).Error; err != nil {
			return updated, err
		}
		updated++
	}

	s.Logger.Info("Trending-Scores neu berechnet", zap.Int("resources", updated))
	return updated, nil
}
