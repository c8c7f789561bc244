package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stumble-higher/config"
	"stumble-higher/models"
	"stumble-higher/storage"
)

// Feste Rang-zu-Prozent-Tabelle: Rang 1–5 explizit, Rang 6–10 teilen sich die
// restlichen 17 % zu gleichen Teilen (3.4 % je Rang).
var rankPercentages = map[int]float64{
	1: 30.0,
	2: 20.0,
	3: 15.0,
	4: 10.0,
	5: 8.0,
}

const sharedRankPercentage = 3.4 // Ränge 6–10

// RankPercentage gibt den Pool-Anteil eines Rangs in Prozent zurück (0 für Ränge > 10).
func RankPercentage(rank int) float64 {
	if pct, ok := rankPercentages[rank]; ok {
		return pct
	}
	if rank >= 6 && rank <= 10 {
		return sharedRankPercentage
	}
	return 0
}

// RewardCandidate ist eine für die Wochen-Verteilung qualifizierte Resource.
type RewardCandidate struct {
	ResourceID   uint
	UserID       uint
	QualityScore float64
	CreatedAt    time.Time
}

// Allocation ist der berechnete Anteil eines Kandidaten am Pool.
type Allocation struct {
	RewardCandidate
	Rank   int
	Amount float64
}

// AllocateRewards sortiert die Kandidaten (Quality-Score absteigend, bei
// Gleichstand früheres Erstelldatum zuerst), nimmt die Top 10 und verteilt den
// Pool nach der festen Prozent-Tabelle. Reine Funktion.
func AllocateRewards(pool float64, candidates []RewardCandidate) []Allocation {
	sorted := make([]RewardCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].QualityScore != sorted[j].QualityScore {
			return sorted[i].QualityScore > sorted[j].QualityScore
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if len(sorted) > 10 {
		sorted = sorted[:10]
	}

	allocations := make([]Allocation, 0, len(sorted))
	for i, c := range sorted {
		rank := i + 1
		allocations = append(allocations, Allocation{
			RewardCandidate: c,
			Rank:            rank,
			Amount:          pool * RankPercentage(rank) / 100.0,
		})
	}
	return allocations
}

// RewardService berechnet die wöchentliche Token-Verteilung als idempotenten Batch.
type RewardService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Config   *config.Config
	S3Client *s3.Client
	Logger   *zap.Logger

	running sync.Mutex
}

// NewRewardService erstellt eine neue Instanz des RewardService.
func NewRewardService(db *gorm.DB, settings *SettingsService, cfg *config.Config, s3Client *s3.Client, logger *zap.Logger) *RewardService {
	return &RewardService{DB: db, Settings: settings, Config: cfg, S3Client: s3Client, Logger: logger}
}

// ComputeWeek berechnet und persistiert die Rewards für die Woche ab weekStart.
// WeekStart ist der Dedup-Schlüssel: eine bereits berechnete Woche wird
// unverändert zurückgegeben. Eine Woche ohne qualifizierte Resources erzeugt
// einen gültigen Zero-Pool-Eintrag, keinen Fehler.
func (s *RewardService) ComputeWeek(weekStart time.Time) (*models.WeeklyReward, error) {
	if !s.running.TryLock() {
		return nil, errors.New("reward-Berechnung läuft bereits")
	}
	defer s.running.Unlock()

	weekStart = weekStart.UTC().Truncate(24 * time.Hour)
	weekEnd := weekStart.Add(7 * 24 * time.Hour)

	var existing models.WeeklyReward
	err := s.DB.Where("week_start = ?", weekStart).First(&existing).Error
	if err == nil {
		s.Logger.Info("Woche bereits berechnet, keine Neuberechnung",
			zap.Time("week_start", weekStart))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t, err := s.Settings.LoadThresholds()
	if err != nil {
		return nil, err
	}

	// Pool: Summe der bezahlten Einreichungen der Woche × Verteilungsprozentsatz
	var paidSum float64
	if err := s.DB.Model(&models.Resource{}).
		Where("created_at >= ? AND created_at < ? AND submission_tx_hash IS NOT NULL", weekStart, weekEnd).
		Select("COALESCE(SUM(submission_amount), 0)").
		Scan(&paidSum).Error; err != nil {
		return nil, err
	}
	pool := paidSum * t.WeeklyDistributionPct / 100.0

	var eligible []models.Resource
	if err := s.DB.
		Where("created_at >= ? AND created_at < ? AND status = ? AND quality_score > 0",
			weekStart, weekEnd, models.StatusApproved).
		Find(&eligible).Error; err != nil {
		return nil, err
	}

	candidates := make([]RewardCandidate, 0, len(eligible))
	for _, r := range eligible {
		candidates = append(candidates, RewardCandidate{
			ResourceID:   r.ID,
			UserID:       r.SubmittedBy,
			QualityScore: r.QualityScore,
			CreatedAt:    r.CreatedAt,
		})
	}
	allocations := AllocateRewards(pool, candidates)

	now := time.Now().UTC()
	reward := models.WeeklyReward{
		WeekStart:              weekStart,
		WeekEnd:                weekEnd,
		TotalPool:              pool,
		DistributionPercentage: t.WeeklyDistributionPct,
		CalculationCompletedAt: &now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reward).Error; err != nil {
			return err
		}
		for _, a := range allocations {
			dist := models.RewardDistribution{
				WeeklyRewardID: reward.ID,
				ResourceID:     a.ResourceID,
				UserID:         a.UserID,
				Rank:           a.Rank,
				Amount:         a.Amount,
				QualityScore:   a.QualityScore,
			}
			if err := tx.Create(&dist).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Wochen-Rewards berechnet",
		zap.Time("week_start", weekStart),
		zap.Float64("pool", pool),
		zap.Int("distributions", len(allocations)))

	if s.Config.ArchiveRewardReports && s.S3Client != nil {
		if err := s.archiveReport(&reward, allocations); err != nil {
			// Archivierung ist best-effort; die Berechnung selbst ist committed.
			s.Logger.Error("Reward-Report-Archivierung fehlgeschlagen", zap.Error(err))
		}
	}

	return &reward, nil
}

// archiveReport legt den Berechnungs-Snapshot als JSON ins S3 ab.
func (s *RewardService) archiveReport(reward *models.WeeklyReward, allocations []Allocation) error {
	report := map[string]interface{}{
		"week_start":  reward.WeekStart,
		"week_end":    reward.WeekEnd,
		"total_pool":  reward.TotalPool,
		"allocations": allocations,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	key := fmt.Sprintf("reward-reports/week-%s.json", reward.WeekStart.Format("2006-01-02"))
	link, err := storage.UploadFile(s.S3Client, s.Config.StratoS3Bucket, key, data, s.Config)
	if err != nil {
		return err
	}
	s.Logger.Info("Reward-Report archiviert", zap.String("link", link))
	return nil
}
