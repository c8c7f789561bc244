package models

import (
	"time"

	"gorm.io/gorm"
)

// Vote-Typen: genau zwei Werte, kein Neutral.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote repräsentiert die Haltung eines Nutzers zu einer Resource.
// Pro (resource, user) existiert höchstens eine Zeile; erneutes Voten mit
// demselben Typ löscht den Vote (Toggle), der Gegentyp überschreibt Typ + Gewicht.
// Toggle-Löschungen sind Soft-Deletes: die Zeile bleibt mit deleted_at stehen,
// damit der Reconciliation-Lauf auch entfernte Votes als Mutation sieht.
type Vote struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	ResourceID uint   `json:"resource_id" gorm:"uniqueIndex:idx_votes_resource_user;not null"`
	UserID     uint   `json:"user_id" gorm:"uniqueIndex:idx_votes_resource_user;not null"`
	VoteType   string `json:"vote_type" gorm:"not null"`

	// Gewicht zum Zeitpunkt der Stimmabgabe, aus der Reputation des Voters berechnet.
	Weight float64 `json:"weight" gorm:"not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Vote) TableName() string {
	return "votes"
}
