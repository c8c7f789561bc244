package services

import (
	"math"
	"testing"

	"stumble-higher/models"
)

func testThresholds() *Thresholds {
	return &Thresholds{
		AutoApproveThreshold:  10.0,
		AutoHideThreshold:     -5.0,
		MinVotesForAutoAction: 3,
		WeeklyDistributionPct: 80.0,
		MaxReputationWeight:   5.0,
	}
}

func TestVoteWeight(t *testing.T) {
	tests := []struct {
		name       string
		reputation int
		want       float64
	}{
		{"neuer Nutzer", 0, 1.0},
		{"mittlere Reputation", 20, 3.0},
		{"am Cap", 40, 5.0},
		{"über dem Cap", 50, 5.0},
		{"weit über dem Cap", 500, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VoteWeight(tt.reputation, 5.0)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("VoteWeight(%d) = %v, want %v", tt.reputation, got, tt.want)
			}
		})
	}
}

func TestComputeResourceScore(t *testing.T) {
	up := func(weight float64) models.Vote {
		return models.Vote{VoteType: models.VoteUp, Weight: weight}
	}
	down := func(weight float64) models.Vote {
		return models.Vote{VoteType: models.VoteDown, Weight: weight}
	}

	tests := []struct {
		name        string
		votes       []models.Vote
		wantScore   float64
		wantApprove bool
		wantHide    bool
	}{
		{
			name:        "keine Votes",
			votes:       nil,
			wantScore:   0,
			wantApprove: false,
			wantHide:    false,
		},
		{
			name:        "drei Upvotes knapp unter Approve-Schwelle",
			votes:       []models.Vote{up(1.0), up(3.0), up(5.0)},
			wantScore:   9.0,
			wantApprove: false,
			wantHide:    false,
		},
		{
			name:        "vierter Upvote hebt über die Schwelle",
			votes:       []models.Vote{up(1.0), up(3.0), up(5.0), up(2.0)},
			wantScore:   11.0,
			wantApprove: true,
			wantHide:    false,
		},
		{
			name:        "hoher Score aber zu wenige Voter",
			votes:       []models.Vote{up(5.0), up(5.0)},
			wantScore:   10.0,
			wantApprove: false,
			wantHide:    false,
		},
		{
			name:        "Downvotes unter Hide-Schwelle",
			votes:       []models.Vote{down(2.0), down(2.0), down(1.5)},
			wantScore:   -5.5,
			wantApprove: false,
			wantHide:    true,
		},
		{
			name:        "gemischte Votes heben sich auf",
			votes:       []models.Vote{up(3.0), down(3.0), up(1.0)},
			wantScore:   1.0,
			wantApprove: false,
			wantHide:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeResourceScore(tt.votes, testThresholds())
			if math.Abs(got.WeightedScore-tt.wantScore) > 1e-9 {
				t.Errorf("WeightedScore = %v, want %v", got.WeightedScore, tt.wantScore)
			}
			if got.ShouldAutoApprove != tt.wantApprove {
				t.Errorf("ShouldAutoApprove = %v, want %v", got.ShouldAutoApprove, tt.wantApprove)
			}
			if got.ShouldAutoHide != tt.wantHide {
				t.Errorf("ShouldAutoHide = %v, want %v", got.ShouldAutoHide, tt.wantHide)
			}
			if got.VoterCount != len(tt.votes) {
				t.Errorf("VoterCount = %d, want %d", got.VoterCount, len(tt.votes))
			}
		})
	}
}

func TestComputeResourceScoreCountsUpAndDown(t *testing.T) {
	votes := []models.Vote{
		{VoteType: models.VoteUp, Weight: 1.0},
		{VoteType: models.VoteUp, Weight: 2.0},
		{VoteType: models.VoteDown, Weight: 1.0},
	}
	got := ComputeResourceScore(votes, testThresholds())
	if got.Upvotes != 2 || got.Downvotes != 1 {
		t.Errorf("Upvotes/Downvotes = %d/%d, want 2/1", got.Upvotes, got.Downvotes)
	}
}

func TestComputeReputation(t *testing.T) {
	tests := []struct {
		name          string
		qualityScores []float64
		votesCast     int
		interactions  int
		want          int
	}{
		{"neuer Nutzer", nil, 0, 0, 0},
		{"nur Content", []float64{2.0}, 0, 0, 10},
		{"Content am Per-Resource-Cap", []float64{15.0}, 0, 0, 50},
		{"mehrere Resources cappen einzeln", []float64{15.0, 2.0}, 0, 0, 60},
		{"negativer Quality-Score zieht ab", []float64{-2.0}, 20, 0, 10},
		{"Voting-Punkte gecappt", nil, 150, 0, 100},
		{"Engagement-Punkte gecappt", nil, 0, 1000, 50},
		{"alle Quellen zusammen", []float64{15.0, 2.0}, 150, 1000, 210},
		{"Rundung", []float64{0.1}, 0, 3, 1}, // 0.5 + 0.3 = 0.8 → 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReputation(tt.qualityScores, tt.votesCast, tt.interactions)
			if got != tt.want {
				t.Errorf("ComputeReputation() = %d, want %d", got, tt.want)
			}
		})
	}
}
