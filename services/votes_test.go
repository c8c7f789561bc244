package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"stumble-higher/models"
)

func TestResolveVoteAction(t *testing.T) {
	up := &models.Vote{VoteType: models.VoteUp}
	down := &models.Vote{VoteType: models.VoteDown}
	// Per Toggle entfernter Vote: Zeile existiert noch, ist aber soft-gelöscht.
	removed := &models.Vote{
		VoteType:  models.VoteUp,
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}

	tests := []struct {
		name     string
		existing *models.Vote
		voteType string
		want     VoteAction
	}{
		{"kein bestehender Vote", nil, models.VoteUp, VoteCreated},
		{"gleicher Typ togglet weg (up)", up, models.VoteUp, VoteRemoved},
		{"gleicher Typ togglet weg (down)", down, models.VoteDown, VoteRemoved},
		{"Gegentyp überschreibt (up→down)", up, models.VoteDown, VoteUpdated},
		{"Gegentyp überschreibt (down→up)", down, models.VoteUp, VoteUpdated},
		{"Re-Vote nach Toggle-Löschung legt neu an", removed, models.VoteUp, VoteCreated},
		{"Gegentyp nach Toggle-Löschung legt neu an", removed, models.VoteDown, VoteCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVoteAction(tt.existing, tt.voteType)
			if got != tt.want {
				t.Errorf("ResolveVoteAction() = %q, want %q", got, tt.want)
			}
		})
	}
}
