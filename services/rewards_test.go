package services

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestRankPercentage(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{1, 30.0},
		{2, 20.0},
		{3, 15.0},
		{4, 10.0},
		{5, 8.0},
		{6, 3.4},
		{10, 3.4},
		{11, 0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := RankPercentage(tt.rank); got != tt.want {
			t.Errorf("RankPercentage(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}
}

func TestAllocateRewardsDistributesFullPool(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	var candidates []RewardCandidate
	for i := 0; i < 12; i++ {
		candidates = append(candidates, RewardCandidate{
			ResourceID:   uint(i + 1),
			UserID:       uint(100 + i),
			QualityScore: float64(12 - i),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}

	pool := 1000.0
	allocations := AllocateRewards(pool, candidates)

	if len(allocations) != 10 {
		t.Fatalf("len(allocations) = %d, want 10", len(allocations))
	}
	if allocations[0].ResourceID != 1 || allocations[0].Rank != 1 {
		t.Errorf("Rang 1 = Resource %d, want 1", allocations[0].ResourceID)
	}
	if math.Abs(allocations[0].Amount-300.0) > 1e-9 {
		t.Errorf("Rang-1-Betrag = %v, want 300", allocations[0].Amount)
	}

	var sum float64
	for _, a := range allocations {
		sum += a.Amount
	}
	// 30+20+15+10+8 + 5×3.4 = 100 % des Pools
	if math.Abs(sum-pool) > 1e-6 {
		t.Errorf("Summe der Beträge = %v, want %v", sum, pool)
	}
}

func TestAllocateRewardsTieBreakByCreation(t *testing.T) {
	earlier := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	later := earlier.Add(3 * time.Hour)

	candidates := []RewardCandidate{
		{ResourceID: 1, QualityScore: 7.0, CreatedAt: later},
		{ResourceID: 2, QualityScore: 7.0, CreatedAt: earlier},
	}

	allocations := AllocateRewards(100.0, candidates)
	if allocations[0].ResourceID != 2 {
		t.Errorf("Rang 1 = Resource %d, want 2 (früher eingereicht)", allocations[0].ResourceID)
	}
	if allocations[1].ResourceID != 1 {
		t.Errorf("Rang 2 = Resource %d, want 1", allocations[1].ResourceID)
	}
}

func TestAllocateRewardsFewerThanTen(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	candidates := []RewardCandidate{
		{ResourceID: 1, QualityScore: 9.0, CreatedAt: base},
		{ResourceID: 2, QualityScore: 5.0, CreatedAt: base},
		{ResourceID: 3, QualityScore: 2.0, CreatedAt: base},
	}

	allocations := AllocateRewards(1000.0, candidates)
	if len(allocations) != 3 {
		t.Fatalf("len(allocations) = %d, want 3", len(allocations))
	}

	// Nur die Anteile der belegten Ränge werden ausgeschüttet (65 %).
	var sum float64
	for i, a := range allocations {
		if a.Rank != i+1 {
			t.Errorf("Rank = %d, want %d", a.Rank, i+1)
		}
		sum += a.Amount
	}
	if math.Abs(sum-650.0) > 1e-9 {
		t.Errorf("Summe der Beträge = %v, want 650", sum)
	}
}

func TestAllocateRewardsEmptyAndZeroPool(t *testing.T) {
	if got := AllocateRewards(1000.0, nil); len(got) != 0 {
		t.Errorf("Allokationen ohne Kandidaten: %d, want 0", len(got))
	}

	candidates := []RewardCandidate{
		{ResourceID: 1, QualityScore: 9.0, CreatedAt: time.Now()},
	}
	allocations := AllocateRewards(0, candidates)
	if len(allocations) != 1 {
		t.Fatalf("len(allocations) = %d, want 1", len(allocations))
	}
	if allocations[0].Amount != 0 {
		t.Errorf("Zero-Pool-Betrag = %v, want 0", allocations[0].Amount)
	}
}

func TestAllocateRewardsDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	candidates := []RewardCandidate{
		{ResourceID: 1, QualityScore: 1.0, CreatedAt: base},
		{ResourceID: 2, QualityScore: 9.0, CreatedAt: base},
	}
	before := fmt.Sprintf("%v", candidates)

	AllocateRewards(100.0, candidates)

	if after := fmt.Sprintf("%v", candidates); after != before {
		t.Errorf("Eingabe-Slice wurde mutiert: %s → %s", before, after)
	}
}
