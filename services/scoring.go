package services

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stumble-higher/models"
)

// ScoreResult ist das Ergebnis des Quality Scorers für eine Resource.
type ScoreResult struct {
	Upvotes           int     `json:"upvotes"`
	Downvotes         int     `json:"downvotes"`
	WeightedScore     float64 `json:"weighted_score"`
	VoterCount        int     `json:"voter_count"`
	ShouldAutoApprove bool    `json:"should_auto_approve"`
	ShouldAutoHide    bool    `json:"should_auto_hide"`
}

// VoteWeight berechnet das Stimmgewicht aus der Reputation des Voters:
// min(reputation * 0.1 + 1, maxWeight). Der Cap verhindert, dass ein einzelner
// Voter mit hoher Reputation eine Resource dominiert.
func VoteWeight(reputation int, maxWeight float64) float64 {
	return math.Min(float64(reputation)*0.1+1.0, maxWeight)
}

// ComputeResourceScore aggregiert die Votes einer Resource zu einem
// reputationsgewichteten Score und entscheidet Auto-Approve/Auto-Hide.
// Reine Funktion über den übergebenen Vote-Snapshot, keine Seiteneffekte.
func ComputeResourceScore(votes []models.Vote, t *Thresholds) ScoreResult {
	var result ScoreResult
	for _, v := range votes {
		switch v.VoteType {
		case models.VoteUp:
			result.Upvotes++
			result.WeightedScore += v.Weight
		case models.VoteDown:
			result.Downvotes++
			result.WeightedScore -= v.Weight
		}
	}
	result.VoterCount = len(votes)

	enoughVotes := result.VoterCount >= t.MinVotesForAutoAction
	result.ShouldAutoApprove = enoughVotes && result.WeightedScore >= t.AutoApproveThreshold
	result.ShouldAutoHide = enoughVotes && result.WeightedScore <= t.AutoHideThreshold

	return result
}

// ComputeReputation berechnet die Reputation eines Nutzers aus seinen Quellen:
//   content:    Summe über eigene approved/pending Resources von min(quality_score*5, 50)
//   voting:     min(Anzahl abgegebener Votes, 100)
//   engagement: min(0.1 * Anzahl Interactions, 50)
// Idempotent – jederzeit aus den Quelltabellen neu berechenbar.
func ComputeReputation(ownQualityScores []float64, votesCast int, interactions int) int {
	var contentPoints float64
	for _, q := range ownQualityScores {
		contentPoints += math.Min(q*5.0, 50.0)
	}
	votingPoints := math.Min(float64(votesCast), 100.0)
	engagementPoints := math.Min(0.1*float64(interactions), 50.0)

	return int(math.Round(contentPoints + votingPoints + engagementPoints))
}

// ScoringService wendet die Ergebnisse des Quality Scorers auf die Datenbank an
// und hält die abgeleiteten Nutzer-Werte aktuell.
type ScoringService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Logger   *zap.Logger
}

// NewScoringService erstellt eine neue Instanz des ScoringService.
func NewScoringService(db *gorm.DB, settings *SettingsService, logger *zap.Logger) *ScoringService {
	return &ScoringService{DB: db, Settings: settings, Logger: logger}
}

// ScoreResource berechnet den aktuellen Score einer Resource, ohne zu persistieren.
func (s *ScoringService) ScoreResource(resourceID uint) (*ScoreResult, error) {
	t, err := s.Settings.LoadThresholds()
	if err != nil {
		return nil, err
	}
	var votes []models.Vote
	if err := s.DB.Where("resource_id = ?", resourceID).Find(&votes).Error; err != nil {
		return nil, err
	}
	result := ComputeResourceScore(votes, t)
	return &result, nil
}

// RecalculateResource schreibt Upvotes, Downvotes und QualityScore auf die
// Resource und wendet – nur aus status=pending heraus – das Auto-Approve/Auto-Hide
// Verdikt als Statusübergang an. Approved/hidden werden danach nie wieder
// automatisch transitioniert. Gibt den neuen Status zurück ("" = kein Übergang).
func (s *ScoringService) RecalculateResource(resourceID uint) (string, error) {
	var resource models.Resource
	if err := s.DB.First(&resource, resourceID).Error; err != nil {
		return "", err
	}

	result, err := s.ScoreResource(resourceID)
	if err != nil {
		return "", err
	}

	updates := map[string]interface{}{
		"upvotes":       result.Upvotes,
		"downvotes":     result.Downvotes,
		"quality_score": result.WeightedScore,
	}

	transition := ""
	if resource.Status == models.StatusPending {
		if result.ShouldAutoApprove {
			transition = models.StatusApproved
		} else if result.ShouldAutoHide {
			transition = models.StatusHidden
		}
		if transition != "" {
			updates["status"] = transition
		}
	}

	if err := s.DB.Model(&models.Resource{}).Where("id = ?", resourceID).Updates(updates).Error; err != nil {
		return "", err
	}

	if transition != "" {
		s.Logger.Info("Resource automatisch transitioniert",
			zap.Uint("resource_id", resourceID),
			zap.String("new_status", transition),
			zap.Float64("weighted_score", result.WeightedScore),
			zap.Int("voter_count", result.VoterCount))
	}

	return transition, nil
}

// ReconcileRecent berechnet alle Resources neu, auf denen im Zeitfenster
// Votes mutiert wurden, inkl. der Reputation der beteiligten Voter. Fängt
// Neuberechnungen auf, die im Vote-Pfad fehlgeschlagen sind. Unscoped und
// deleted_at im Filter: Toggle-Löschungen sind Soft-Deletes und zählen als
// Mutation, sonst bliebe ein entfernter Vote für den Sweep unsichtbar.
func (s *ScoringService) ReconcileRecent(window time.Duration) (int, error) {
	since := time.Now().UTC().Add(-window)

	var resourceIDs []uint
	if err := s.DB.Unscoped().Model(&models.Vote{}).
		Where("updated_at >= ? OR deleted_at >= ?", since, since).
		Distinct("resource_id").
		Pluck("resource_id", &resourceIDs).Error; err != nil {
		return 0, err
	}

	var userIDs []uint
	if err := s.DB.Unscoped().Model(&models.Vote{}).
		Where("updated_at >= ? OR deleted_at >= ?", since, since).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, err
	}

	recalculated := 0
	for _, id := range resourceIDs {
		if _, err := s.RecalculateResource(id); err != nil {
			s.Logger.Error("Reconciliation: Resource-Neuberechnung fehlgeschlagen",
				zap.Uint("resource_id", id), zap.Error(err))
			continue
		}
		recalculated++
	}
	for _, id := range userIDs {
		if err := s.RecalculateUserReputation(id); err != nil {
			s.Logger.Error("Reconciliation: Reputations-Neuberechnung fehlgeschlagen",
				zap.Uint("user_id", id), zap.Error(err))
		}
	}

	return recalculated, nil
}

// RecalculateUserReputation berechnet Reputation und Zähler eines Nutzers
// vollständig neu aus Resources, Votes und Interactions.
func (s *ScoringService) RecalculateUserReputation(userID uint) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // Nutzer existiert (noch) nicht, nichts zu tun
		}
		return err
	}

	var qualityScores []float64
	if err := s.DB.Model(&models.Resource{}).
		Where("submitted_by = ? AND status IN ?", userID, []string{models.StatusApproved, models.StatusPending}).
		Pluck("quality_score", &qualityScores).Error; err != nil {
		return err
	}

	var totalSubmissions, upvotesCast, downvotesCast, interactions int64
	if err := s.DB.Model(&models.Resource{}).Where("submitted_by = ?", userID).Count(&totalSubmissions).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.Vote{}).Where("user_id = ? AND vote_type = ?", userID, models.VoteUp).Count(&upvotesCast).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.Vote{}).Where("user_id = ? AND vote_type = ?", userID, models.VoteDown).Count(&downvotesCast).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.UserInteraction{}).Where("user_id = ?", userID).Count(&interactions).Error; err != nil {
		return err
	}

	reputation := ComputeReputation(qualityScores, int(upvotesCast+downvotesCast), int(interactions))

	return s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reputation_score":  reputation,
		"total_submissions": totalSubmissions,
		"total_upvotes":     upvotesCast,
		"total_downvotes":   downvotesCast,
	}).Error
}
