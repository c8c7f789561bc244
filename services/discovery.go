package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stumble-higher/models"
)

// Discovery-Algorithmen.
const (
	AlgorithmPopular      = "popular"
	AlgorithmRecent       = "recent"
	AlgorithmRandom       = "random"
	AlgorithmPersonalized = "personalized"
)

// ErrUnknownAlgorithm wird bei einem unbekannten Algorithmus zurückgegeben.
var ErrUnknownAlgorithm = errors.New("unbekannter Discovery-Algorithmus")

// DiscoveryRequest beschreibt eine Stumble-Anfrage.
type DiscoveryRequest struct {
	Algorithm  string
	UserID     *uint
	ExcludeIDs []uint
	Category   string
	Difficulty string
	MaxTime    int
	Limit      int
}

// DiscoveryResult ist die geordnete Antwort inkl. tatsächlich verwendetem
// Algorithmus (für Fallback-Transparenz).
type DiscoveryResult struct {
	ResourceIDs   []uint `json:"resource_ids"`
	AlgorithmUsed string `json:"algorithm_used"`
}

// UserProfile ist das aus der Interaktionshistorie abgeleitete Profil:
// gemochte Kategorien und Tags sowie die mittlere Schwierigkeitspräferenz
// auf einer 1–3-Skala (0 = unbekannt).
type UserProfile struct {
	LikedCategories map[string]bool
	LikedTags       map[string]bool
	AvgDifficulty   float64
}

// difficultyTier bildet Schwierigkeitsgrade auf die 1–3-Skala ab (0 = unbekannt).
func difficultyTier(level string) int {
	switch level {
	case "beginner":
		return 1
	case "intermediate":
		return 2
	case "advanced":
		return 3
	default:
		return 0
	}
}

// RandomizedScore ist der pro Aufruf zufällige Score der "random"-Strategie.
// Bewusst kein uniformes Sampling: ein quality/trending-gewichteter Top-K,
// damit gute Inhalte auch unter "random" überproportional auftauchen.
func RandomizedScore(qualityScore, trendingScore float64, rng *rand.Rand) float64 {
	return 0.7*qualityScore + 0.2*trendingScore + 0.1*(rng.Float64()*2.0)
}

// PersonalizedScore bewertet eine Resource gegen Profil und explizite
// Präferenzen als gewichtete Summe (Kategorie 0.25, Tags 0.20, Quality 0.25,
// Trending 0.15, Zeit-Fit 0.10, Schwierigkeit 0.05).
func PersonalizedScore(r *models.Resource, profile *UserProfile, preferredCategories map[string]bool, maxTimeMinutes int) float64 {
	var categoryScore float64
	if preferredCategories[r.Category] {
		categoryScore = 5.0
	} else if profile.LikedCategories[r.Category] {
		categoryScore = 3.0
	}

	var tagScore float64
	for _, tag := range DecodeStringList(r.Tags) {
		if profile.LikedTags[tag] {
			tagScore += 0.5
		}
	}

	var timeScore float64
	switch {
	case r.EstimatedTime == 0 || maxTimeMinutes == 0:
		timeScore = 0.5
	case r.EstimatedTime <= maxTimeMinutes:
		timeScore = 2.0
	}

	var difficultyScore float64
	tier := difficultyTier(r.DifficultyLevel)
	switch {
	case tier == 0 || profile.AvgDifficulty == 0:
		difficultyScore = 0.5
	case tier == int(math.Round(profile.AvgDifficulty)):
		difficultyScore = 1.0
	}

	return categoryScore*0.25 +
		tagScore*0.20 +
		r.QualityScore*0.25 +
		r.TrendingScore*0.15 +
		timeScore*0.10 +
		difficultyScore*0.05
}

// DecodeStringList dekodiert ein JSONB-Array in einen String-Slice.
func DecodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// DiscoveryService wählt die nächste(n) Resource(s) für einen Stumble aus.
type DiscoveryService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewDiscoveryService erstellt eine neue Instanz des DiscoveryService.
func NewDiscoveryService(db *gorm.DB, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{DB: db, Logger: logger}
}

// SelectNext liefert eine geordnete Liste von Resource-IDs gemäß Strategie.
// Liefert "personalized" keine Treffer (z. B. keine Historie), fällt der Aufruf
// auf "popular" zurück und meldet das im Ergebnis – nie leer zurückgeben,
// solange populäre Treffer existieren.
func (s *DiscoveryService) SelectNext(req DiscoveryRequest) (*DiscoveryResult, error) {
	if req.Limit <= 0 {
		req.Limit = 1
	}

	switch req.Algorithm {
	case AlgorithmPopular:
		ids, err := s.selectPopular(req)
		return &DiscoveryResult{ResourceIDs: ids, AlgorithmUsed: AlgorithmPopular}, err
	case AlgorithmRecent:
		ids, err := s.selectRecent(req)
		return &DiscoveryResult{ResourceIDs: ids, AlgorithmUsed: AlgorithmRecent}, err
	case AlgorithmRandom:
		ids, err := s.selectRandom(req)
		return &DiscoveryResult{ResourceIDs: ids, AlgorithmUsed: AlgorithmRandom}, err
	case AlgorithmPersonalized:
		if req.UserID == nil {
			return s.fallbackToPopular(req)
		}
		ids, err := s.selectPersonalized(req, *req.UserID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return s.fallbackToPopular(req)
		}
		return &DiscoveryResult{ResourceIDs: ids, AlgorithmUsed: AlgorithmPersonalized}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, req.Algorithm)
	}
}

func (s *DiscoveryService) fallbackToPopular(req DiscoveryRequest) (*DiscoveryResult, error) {
	ids, err := s.selectPopular(req)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Personalized ohne Treffer, Fallback auf popular")
	return &DiscoveryResult{ResourceIDs: ids, AlgorithmUsed: AlgorithmPopular}, nil
}

// baseQuery wendet Status, Filter und die Exclude-Liste der Session an.
func (s *DiscoveryService) baseQuery(req DiscoveryRequest) *gorm.DB {
	query := s.DB.Model(&models.Resource{}).Where("status = ?", models.StatusApproved)
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Difficulty != "" {
		query = query.Where("difficulty_level = ?", req.Difficulty)
	}
	if req.MaxTime > 0 {
		query = query.Where("estimated_time_minutes > 0 AND estimated_time_minutes <= ?", req.MaxTime)
	}
	if len(req.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", req.ExcludeIDs)
	}
	return query
}

func (s *DiscoveryService) selectPopular(req DiscoveryRequest) ([]uint, error) {
	var ids []uint
	err := s.baseQuery(req).
		Order("quality_score desc, created_at desc").
		Limit(req.Limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *DiscoveryService) selectRecent(req DiscoveryRequest) ([]uint, error) {
	var ids []uint
	err := s.baseQuery(req).
		Where("quality_score >= 0").
		Order("created_at desc").
		Limit(req.Limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *DiscoveryService) selectRandom(req DiscoveryRequest) ([]uint, error) {
	var candidates []models.Resource
	if err := s.baseQuery(req).Find(&candidates).Error; err != nil {
		return nil, err
	}
	return s.rankRandomized(candidates, req.Limit), nil
}

// rankRandomized sortiert die Kandidaten nach dem randomisierten Score.
// Der Generator wird pro Aufruf angelegt; rand.Rand ist nicht goroutinesicher
// und parallele Stumble-Requests teilen sich den Service.
func (s *DiscoveryService) rankRandomized(candidates []models.Resource, limit int) []uint {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	type scored struct {
		id    uint
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, r := range candidates {
		ranked = append(ranked, scored{id: r.ID, score: RandomizedScore(r.QualityScore, r.TrendingScore, rng)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	ids := make([]uint, 0, limit)
	for _, r := range ranked {
		if len(ids) >= limit {
			break
		}
		ids = append(ids, r.id)
	}
	return ids
}

func (s *DiscoveryService) selectPersonalized(req DiscoveryRequest, userID uint) ([]uint, error) {
	profile, err := s.BuildProfile(userID)
	if err != nil {
		return nil, err
	}
	if len(profile.LikedCategories) == 0 && len(profile.LikedTags) == 0 {
		return nil, nil // keine Historie → Fallback durch den Aufrufer
	}

	var prefs models.UserPreference
	hasPrefs := true
	if err := s.DB.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasPrefs = false
	}

	query := s.baseQuery(req)

	preferred := map[string]bool{}
	maxTime := 0
	if hasPrefs {
		for _, c := range DecodeStringList(prefs.PreferredCategories) {
			preferred[c] = true
		}
		if excluded := DecodeStringList(prefs.ExcludedCategories); len(excluded) > 0 {
			query = query.Where("category NOT IN ?", excluded)
		}
		maxTime = prefs.MaxTimeMinutes

		if prefs.ExcludeViewed {
			viewedSince := time.Now().UTC().Add(-30 * 24 * time.Hour)
			sub := s.DB.Model(&models.UserInteraction{}).
				Select("resource_id").
				Where("user_id = ? AND interaction_type = ? AND created_at >= ?", userID, models.InteractionView, viewedSince)
			query = query.Where("id NOT IN (?)", sub)
		}
	}

	var candidates []models.Resource
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	type scored struct {
		id    uint
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		ranked = append(ranked, scored{
			id:    candidates[i].ID,
			score: PersonalizedScore(&candidates[i], profile, preferred, maxTime),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	ids := make([]uint, 0, req.Limit)
	for _, r := range ranked {
		if len(ids) >= req.Limit {
			break
		}
		ids = append(ids, r.id)
	}
	return ids, nil
}

// BuildProfile leitet das Nutzerprofil aus den letzten 90 Tagen ab:
// hochgevotete sowie angesehene/favorisierte Resources bestimmen gemochte
// Kategorien, Tags und die mittlere Schwierigkeitspräferenz.
func (s *DiscoveryService) BuildProfile(userID uint) (*UserProfile, error) {
	since := time.Now().UTC().Add(-90 * 24 * time.Hour)

	var likedIDs []uint
	if err := s.DB.Model(&models.Vote{}).
		Where("user_id = ? AND vote_type = ? AND created_at >= ?", userID, models.VoteUp, since).
		Pluck("resource_id", &likedIDs).Error; err != nil {
		return nil, err
	}

	var viewedIDs []uint
	if err := s.DB.Model(&models.UserInteraction{}).
		Where("user_id = ? AND interaction_type IN ? AND created_at >= ?",
			userID, []string{models.InteractionView, models.InteractionFavorite}, since).
		Distinct("resource_id").
		Pluck("resource_id", &viewedIDs).Error; err != nil {
		return nil, err
	}

	idSet := make(map[uint]struct{}, len(likedIDs)+len(viewedIDs))
	for _, id := range likedIDs {
		idSet[id] = struct{}{}
	}
	for _, id := range viewedIDs {
		idSet[id] = struct{}{}
	}

	profile := &UserProfile{
		LikedCategories: make(map[string]bool),
		LikedTags:       make(map[string]bool),
	}
	if len(idSet) == 0 {
		return profile, nil
	}

	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var resources []models.Resource
	if err := s.DB.Where("id IN ?", ids).Find(&resources).Error; err != nil {
		return nil, err
	}

	var tierSum, tierCount int
	for _, r := range resources {
		profile.LikedCategories[r.Category] = true
		for _, tag := range DecodeStringList(r.Tags) {
			profile.LikedTags[tag] = true
		}
		if tier := difficultyTier(r.DifficultyLevel); tier > 0 {
			tierSum += tier
			tierCount++
		}
	}
	if tierCount > 0 {
		profile.AvgDifficulty = float64(tierSum) / float64(tierCount)
	}

	return profile, nil
}
