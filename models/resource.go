package models

import (
	"time"

	"gorm.io/datatypes"
)

// Gültige Resource-Stati (Zustandsmaschine, siehe services.ScoringService).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusHidden   = "hidden"
)

// Gültige Kategorien für Resources.
var ValidCategories = map[string]bool{
	"books":      true,
	"articles":   true,
	"videos":     true,
	"tools":      true,
	"research":   true,
	"philosophy": true,
}

// Gültige Schwierigkeitsgrade.
var ValidDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// Resource repräsentiert einen entdeckbaren Inhalt (Artikel, Video, Tool etc.).
// Resources werden nie physisch gelöscht; "Löschen" ist der Übergang zu status=hidden.
type Resource struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title string `json:"title" gorm:"not null"`
	URL   string `json:"url" gorm:"uniqueIndex;not null"`

	Category        string         `json:"category" gorm:"index;not null"`
	Tags            datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"` // JSON-Array mit max. 10 Tags
	DifficultyLevel string         `json:"difficulty_level,omitempty" gorm:"index"`
	EstimatedTime   int            `json:"estimated_time_minutes,omitempty" gorm:"column:estimated_time_minutes"` // Minuten, 0 = unbekannt

	SubmittedBy uint `json:"submitted_by" gorm:"index;not null"`

	Status string `json:"status" gorm:"index;default:'pending'"`

	// Abgeleitete Scores (werden bei jeder Vote-Mutation bzw. periodisch neu berechnet)
	Upvotes       int     `json:"upvotes" gorm:"default:0"`
	Downvotes     int     `json:"downvotes" gorm:"default:0"`
	QualityScore  float64 `json:"quality_score" gorm:"default:0"`
	TrendingScore float64 `json:"trending_score" gorm:"index;default:0"`

	ViewCount       int `json:"view_count" gorm:"default:0"`
	UniqueViewCount int `json:"unique_view_count" gorm:"default:0"`

	// Genesis-Inhalte: per Bulk-Import angelegte Seed-Resources, bereits approved.
	IsGenesis bool `json:"is_genesis" gorm:"default:false"`

	// Token-Zahlung bei der Einreichung; TxHash != nil zählt in den Reward-Pool.
	SubmissionAmount float64 `json:"submission_amount" gorm:"default:0"`
	SubmissionTxHash *string `json:"submission_tx_hash,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Resource) TableName() string {
	return "resources"
}
