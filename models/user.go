package models

import "time"

// User repräsentiert einen Nutzer der Plattform inkl. abgeleiteter Reputation.
// Die Reputation wird nie direkt gesetzt, sondern aus Resources, Votes und
// Interactions neu berechnet (siehe services.ScoringService).
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username      string `json:"username" gorm:"uniqueIndex;not null"`
	WalletAddress string `json:"wallet_address,omitempty" gorm:"index"`
	FarcasterID   string `json:"farcaster_id,omitempty" gorm:"index"`

	// Abgeleitete Werte
	ReputationScore  int `json:"reputation_score" gorm:"default:0"`
	TotalSubmissions int `json:"total_submissions" gorm:"default:0"`
	TotalUpvotes     int `json:"total_upvotes" gorm:"default:0"`
	TotalDownvotes   int `json:"total_downvotes" gorm:"default:0"`

	// Nutzer werden nie hart gelöscht, nur suspendiert.
	Suspended bool `json:"suspended" gorm:"default:false"`
	// Synthetischer System-Nutzer für importierte Seed-Inhalte.
	IsGenesis bool `json:"is_genesis" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (User) TableName() string {
	return "users"
}
