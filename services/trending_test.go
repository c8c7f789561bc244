package services

import (
	"math"
	"testing"
	"time"
)

func TestRecencyBonus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"brandneu", 0, 5.0},
		{"genau 3 Tage", 3 * 24 * time.Hour, 5.0},
		{"5 Tage", 5 * 24 * time.Hour, 2.0},
		{"genau 7 Tage", 7 * 24 * time.Hour, 2.0},
		{"20 Tage", 20 * 24 * time.Hour, 1.0},
		{"genau 30 Tage", 30 * 24 * time.Hour, 1.0},
		{"älter als 30 Tage", 31 * 24 * time.Hour, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyBonus(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("RecencyBonus(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestTrendingScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		quality     float64
		recentViews int
		recentVotes int
		age         time.Duration
		want        float64
	}{
		{
			name:    "frische aktive Resource",
			quality: 10.0, recentViews: 20, recentVotes: 5,
			age:  24 * time.Hour,
			want: 0.4*10 + 0.3*20 + 0.2*5 + 0.1*5, // 11.5
		},
		{
			name:    "alte Resource ohne Aktivität",
			quality: 10.0, recentViews: 0, recentVotes: 0,
			age:  60 * 24 * time.Hour,
			want: 4.0,
		},
		{
			name:    "negativer Quality-Score drückt den Score",
			quality: -3.0, recentViews: 2, recentVotes: 1,
			age:  2 * 24 * time.Hour,
			want: 0.4*-3 + 0.3*2 + 0.2*1 + 0.1*5, // 0.1
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendingScore(tt.quality, tt.recentViews, tt.recentVotes, now.Add(-tt.age), now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrendingScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
