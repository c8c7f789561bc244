package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stumble-higher/models"
)

// InteractionService schreibt das append-only Interaction-Log und hält die
// View-Zähler der Resources aktuell. Einträge werden nie mutiert oder gelöscht.
type InteractionService struct {
	DB     *gorm.DB
	Worker *ScoreWorker
	Logger *zap.Logger
}

// NewInteractionService erstellt eine neue Instanz des InteractionService.
func NewInteractionService(db *gorm.DB, worker *ScoreWorker, logger *zap.Logger) *InteractionService {
	return &InteractionService{DB: db, Worker: worker, Logger: logger}
}

// Log schreibt eine Interaktion. Bei type=view werden die View-Zähler der
// Resource erhöht; unique_view_count nur, wenn der Nutzer bzw. die Session die
// Resource zum ersten Mal sieht.
func (s *InteractionService) Log(userID *uint, sessionID string, resourceID uint, interactionType string, metadata datatypes.JSON) (*models.UserInteraction, error) {
	if !models.ValidInteractionTypes[interactionType] {
		return nil, fmt.Errorf("ungültiger interaction_type: %s", interactionType)
	}

	var resource models.Resource
	if err := s.DB.First(&resource, resourceID).Error; err != nil {
		return nil, err
	}

	firstView := false
	if interactionType == models.InteractionView {
		prior := s.DB.Model(&models.UserInteraction{}).
			Where("resource_id = ? AND interaction_type = ?", resourceID, models.InteractionView)
		if userID != nil {
			prior = prior.Where("user_id = ?", *userID)
		} else {
			prior = prior.Where("session_id = ?", sessionID)
		}
		var count int64
		if err := prior.Count(&count).Error; err != nil {
			return nil, err
		}
		firstView = count == 0
	}

	interaction := models.UserInteraction{
		UserID:          userID,
		SessionID:       sessionID,
		ResourceID:      resourceID,
		InteractionType: interactionType,
		Metadata:        metadata,
	}
	if err := s.DB.Create(&interaction).Error; err != nil {
		return nil, err
	}

	if interactionType == models.InteractionView {
		updates := map[string]interface{}{
			"view_count": gorm.Expr("view_count + 1"),
		}
		if firstView {
			updates["unique_view_count"] = gorm.Expr("unique_view_count + 1")
		}
		if err := s.DB.Model(&models.Resource{}).Where("id = ?", resourceID).Updates(updates).Error; err != nil {
			// Zähler sind abgeleitet; der Log-Eintrag selbst ist committed.
			s.Logger.Error("View-Zähler-Update fehlgeschlagen",
				zap.Uint("resource_id", resourceID), zap.Error(err))
		}
	}

	// Interactions fließen in die Engagement-Punkte der Reputation ein.
	if userID != nil {
		s.Worker.NotifyVoteChanged(resourceID, *userID)
	}

	return &interaction, nil
}
