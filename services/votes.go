package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stumble-higher/models"
)

// Validierungsfehler des Vote-Vorgangs. Werden synchron und mit konkretem
// Grund abgelehnt, nie still ignoriert.
var (
	ErrInvalidVoteType    = errors.New("vote_type muss 'up' oder 'down' sein")
	ErrSelfVote           = errors.New("eigene Einreichungen können nicht gevotet werden")
	ErrResourceNotVotable = errors.New("resource ist nicht votebar (nur approved/pending)")
	ErrUserSuspended      = errors.New("suspendierte Nutzer können nicht voten")
)

// VoteAction beschreibt, was der Cast-Vorgang mit dem bestehenden Vote gemacht hat.
type VoteAction string

const (
	VoteCreated VoteAction = "created"
	VoteUpdated VoteAction = "updated"
	VoteRemoved VoteAction = "removed"
)

// ResolveVoteAction entscheidet die Toggle-Semantik: gleicher Typ löscht den
// Vote, Gegentyp überschreibt, kein bestehender Vote legt neu an. Eine
// soft-gelöschte Zeile zählt als nicht vorhanden und wird neu angelegt.
func ResolveVoteAction(existing *models.Vote, voteType string) VoteAction {
	if existing == nil || existing.DeletedAt.Valid {
		return VoteCreated
	}
	if existing.VoteType == voteType {
		return VoteRemoved
	}
	return VoteUpdated
}

// VoteResult ist die Antwort des Vote-Vorgangs.
type VoteResult struct {
	Action   VoteAction `json:"action"`
	VoteType string     `json:"vote_type,omitempty"`
	Weight   float64    `json:"weight,omitempty"`
}

// VoteService führt den Vote-Vorgang aus und stößt danach die
// Score-Neuberechnung über den ScoreWorker an.
type VoteService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Worker   *ScoreWorker
	Logger   *zap.Logger
}

// NewVoteService erstellt eine neue Instanz des VoteService.
func NewVoteService(db *gorm.DB, settings *SettingsService, worker *ScoreWorker, logger *zap.Logger) *VoteService {
	return &VoteService{DB: db, Settings: settings, Worker: worker, Logger: logger}
}

// Cast verarbeitet einen Vote von userID auf resourceID. Pro (resource, user)
// existiert höchstens ein Vote; die Atomarität sichert der Unique-Index
// idx_votes_resource_user. Die Score-Neuberechnung läuft best-effort nach dem
// Commit – ein Vote wird nie abgelehnt, weil das Scoring fehlschlägt.
func (s *VoteService) Cast(resourceID, userID uint, voteType string) (*VoteResult, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, ErrInvalidVoteType
	}

	var resource models.Resource
	if err := s.DB.First(&resource, resourceID).Error; err != nil {
		return nil, err
	}
	if resource.Status != models.StatusApproved && resource.Status != models.StatusPending {
		return nil, ErrResourceNotVotable
	}
	if resource.SubmittedBy == userID {
		return nil, ErrSelfVote
	}

	var voter models.User
	if err := s.DB.First(&voter, userID).Error; err != nil {
		return nil, err
	}
	if voter.Suspended {
		return nil, ErrUserSuspended
	}

	t, err := s.Settings.LoadThresholds()
	if err != nil {
		return nil, fmt.Errorf("thresholds laden fehlgeschlagen: %w", err)
	}
	weight := VoteWeight(voter.ReputationScore, t.MaxReputationWeight)

	// Unscoped: auch eine soft-gelöschte Zeile finden, damit ein Re-Vote die
	// bestehende Zeile restauriert statt in den Unique-Index zu laufen.
	var existing models.Vote
	var existingPtr *models.Vote
	err = s.DB.Unscoped().Where("resource_id = ? AND user_id = ?", resourceID, userID).First(&existing).Error
	if err == nil {
		existingPtr = &existing
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	action := ResolveVoteAction(existingPtr, voteType)
	result := &VoteResult{Action: action}

	switch action {
	case VoteRemoved:
		if err := s.DB.Delete(&models.Vote{}, existing.ID).Error; err != nil {
			return nil, err
		}
	case VoteUpdated:
		if err := s.DB.Model(&models.Vote{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"vote_type": voteType,
			"weight":    weight,
		}).Error; err != nil {
			return nil, err
		}
		result.VoteType = voteType
		result.Weight = weight
	case VoteCreated:
		vote := models.Vote{
			ResourceID: resourceID,
			UserID:     userID,
			VoteType:   voteType,
			Weight:     weight,
		}
		// Paralleler Doppel-Request auf dasselbe Paar läuft in den Unique-Index;
		// der Konflikt wird als "schon gevotet, also Update" behandelt. Eine
		// soft-gelöschte Zeile bleibt im Index und wird hier restauriert.
		updates := clause.AssignmentColumns([]string{"vote_type", "weight", "updated_at"})
		updates = append(updates, clause.Assignment{Column: clause.Column{Name: "deleted_at"}, Value: nil})
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "user_id"}},
			DoUpdates: updates,
		}).Create(&vote).Error; err != nil {
			return nil, err
		}
		result.VoteType = voteType
		result.Weight = weight
	}

	// Post-Commit-Event für Resource-Score und Voter-Reputation.
	s.Worker.NotifyVoteChanged(resourceID, userID)

	s.Logger.Info("Vote verarbeitet",
		zap.Uint("resource_id", resourceID),
		zap.Uint("user_id", userID),
		zap.String("action", string(action)),
		zap.String("vote_type", voteType))

	return result, nil
}
