package services

import (
	"math"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"stumble-higher/models"
)

func TestDifficultyTier(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"beginner", 1},
		{"intermediate", 2},
		{"advanced", 3},
		{"", 0},
		{"expert", 0},
	}

	for _, tt := range tests {
		if got := difficultyTier(tt.level); got != tt.want {
			t.Errorf("difficultyTier(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []string
	}{
		{"leer", nil, nil},
		{"gültiges Array", []byte(`["go","web"]`), []string{"go", "web"}},
		{"kaputtes JSON", []byte(`{not json`), nil},
		{"falscher Typ", []byte(`{"a":1}`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStringList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeStringList(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPersonalizedScore(t *testing.T) {
	resource := &models.Resource{
		Category:        "articles",
		Tags:            []byte(`["go","web"]`),
		QualityScore:    8.0,
		TrendingScore:   4.0,
		EstimatedTime:   10,
		DifficultyLevel: "beginner",
	}

	t.Run("explizite Präferenz schlägt Profil", func(t *testing.T) {
		profile := &UserProfile{
			LikedCategories: map[string]bool{"research": true},
			LikedTags:       map[string]bool{"go": true},
			AvgDifficulty:   1.0,
		}
		preferred := map[string]bool{"articles": true}

		// Kategorie 5.0, Tags 0.5, Zeit 2.0 (10 <= 15), Schwierigkeit 1.0
		want := 5.0*0.25 + 0.5*0.20 + 8.0*0.25 + 4.0*0.15 + 2.0*0.10 + 1.0*0.05
		got := PersonalizedScore(resource, profile, preferred, 15)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PersonalizedScore() = %v, want %v", got, want)
		}
	})

	t.Run("Profil-Kategorie ohne explizite Präferenz", func(t *testing.T) {
		profile := &UserProfile{
			LikedCategories: map[string]bool{"articles": true},
			LikedTags:       map[string]bool{},
			AvgDifficulty:   1.0,
		}

		// Kategorie 3.0, keine Tag-Treffer, maxTime 0 → Zeit neutral 0.5
		want := 3.0*0.25 + 8.0*0.25 + 4.0*0.15 + 0.5*0.10 + 1.0*0.05
		got := PersonalizedScore(resource, profile, map[string]bool{}, 0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PersonalizedScore() = %v, want %v", got, want)
		}
	})

	t.Run("ohne Historie bleiben nur neutrale Anteile", func(t *testing.T) {
		profile := &UserProfile{
			LikedCategories: map[string]bool{},
			LikedTags:       map[string]bool{},
		}

		// Zeit neutral 0.5, Schwierigkeit neutral 0.5 (AvgDifficulty unbekannt)
		want := 8.0*0.25 + 4.0*0.15 + 0.5*0.10 + 0.5*0.05
		got := PersonalizedScore(resource, profile, map[string]bool{}, 0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PersonalizedScore() = %v, want %v", got, want)
		}
	})

	t.Run("Zeitbudget überschritten gibt keinen Zeit-Anteil", func(t *testing.T) {
		long := &models.Resource{
			Category:      "articles",
			QualityScore:  8.0,
			TrendingScore: 4.0,
			EstimatedTime: 30,
		}
		profile := &UserProfile{
			LikedCategories: map[string]bool{},
			LikedTags:       map[string]bool{},
		}

		want := 8.0*0.25 + 4.0*0.15 + 0.5*0.05
		got := PersonalizedScore(long, profile, map[string]bool{}, 15)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PersonalizedScore() = %v, want %v", got, want)
		}
	})
}

func TestRandomizedScore(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	quality, trending := 8.0, 4.0
	base := 0.7*quality + 0.2*trending

	for i := 0; i < 100; i++ {
		got := RandomizedScore(quality, trending, rng)
		if got < base || got > base+0.2 {
			t.Fatalf("RandomizedScore() = %v, außerhalb [%v, %v]", got, base, base+0.2)
		}
	}
}

func TestRankRandomizedConcurrent(t *testing.T) {
	svc := &DiscoveryService{}

	candidates := make([]models.Resource, 20)
	for i := range candidates {
		candidates[i] = models.Resource{
			ID:            uint(i + 1),
			QualityScore:  float64(i),
			TrendingScore: float64(20 - i),
		}
	}

	// Parallele Stumble-Requests teilen sich den Service; die Rankings dürfen
	// sich keinen Zufallsgenerator teilen (rand.Rand ist nicht goroutinesicher).
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ids := svc.rankRandomized(candidates, 5)
				if len(ids) != 5 {
					t.Errorf("len(ids) = %d, want 5", len(ids))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRandomizedScorePrefersQuality(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Der Zufallsanteil ist max. 0.2 – eine deutlich bessere Resource
	// gewinnt immer.
	for i := 0; i < 100; i++ {
		good := RandomizedScore(10.0, 5.0, rng)
		bad := RandomizedScore(1.0, 0.0, rng)
		if bad >= good {
			t.Fatalf("schwache Resource (%v) schlägt starke (%v)", bad, good)
		}
	}
}
