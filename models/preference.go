package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserPreference speichert explizite Discovery-Präferenzen eines Nutzers.
// Wird vom personalisierten Selektor zusätzlich zum abgeleiteten Profil gelesen.
type UserPreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	// JSON-Arrays mit Kategorien
	PreferredCategories datatypes.JSON `json:"preferred_categories,omitempty" gorm:"type:jsonb"`
	ExcludedCategories  datatypes.JSON `json:"excluded_categories,omitempty" gorm:"type:jsonb"`

	// Maximal gewünschte Konsumdauer in Minuten; 0 = keine Grenze.
	MaxTimeMinutes int `json:"max_time_minutes,omitempty"`
	// Resources ausschließen, die in den letzten 30 Tagen gesehen wurden.
	ExcludeViewed bool `json:"exclude_viewed" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (UserPreference) TableName() string {
	return "user_preferences"
}
