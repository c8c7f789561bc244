package models

import (
	"time"

	"gorm.io/datatypes"
)

// Interaction-Typen.
const (
	InteractionView         = "view"
	InteractionFavorite     = "favorite"
	InteractionShare        = "share"
	InteractionComplete     = "complete"
	InteractionClickThrough = "click_through"
)

// ValidInteractionTypes enthält alle erlaubten Interaction-Typen.
var ValidInteractionTypes = map[string]bool{
	InteractionView:         true,
	InteractionFavorite:     true,
	InteractionShare:        true,
	InteractionComplete:     true,
	InteractionClickThrough: true,
}

// UserInteraction ist ein unveränderlicher Log-Eintrag einer Nutzer-Interaktion
// mit einer Resource. Append-only; wird nie mutiert oder gelöscht. Treibt die
// View-Zähler und das Personalisierungs-Profil.
type UserInteraction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// UserID ist nil bei anonymen Sessions.
	UserID    *uint  `json:"user_id,omitempty" gorm:"index"`
	SessionID string `json:"session_id,omitempty" gorm:"index"`

	ResourceID      uint   `json:"resource_id" gorm:"index;not null"`
	InteractionType string `json:"interaction_type" gorm:"index;not null"`

	// Freiform-Metadaten: duration, completion_percentage, algorithm etc.
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
}

// TableName gibt explizit den Tabellennamen an.
func (UserInteraction) TableName() string {
	return "user_interactions"
}
