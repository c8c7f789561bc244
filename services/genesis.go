package services

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stumble-higher/models"
)

// GenesisEntry ist ein Eintrag der Seed-Datei für den Bulk-Import.
type GenesisEntry struct {
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags,omitempty"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
	EstimatedTime   int      `json:"estimated_time_minutes,omitempty"`
}

// GenesisService importiert Seed-Inhalte als Genesis-Resources: bereits
// approved und dem synthetischen Genesis-Nutzer zugeordnet.
type GenesisService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewGenesisService erstellt eine neue Instanz des GenesisService.
func NewGenesisService(db *gorm.DB, logger *zap.Logger) *GenesisService {
	return &GenesisService{DB: db, Logger: logger}
}

// EnsureGenesisUser legt den Genesis-Nutzer an, falls er noch fehlt.
func (s *GenesisService) EnsureGenesisUser(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{Username: username, IsGenesis: true}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	s.Logger.Info("Genesis-Nutzer angelegt", zap.String("username", username))
	return &user, nil
}

// ImportFile liest eine JSON-Seed-Datei und importiert alle Einträge.
// Bereits vorhandene URLs werden übersprungen (Re-Import ist idempotent).
func (s *GenesisService) ImportFile(path, genesisUsername string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []GenesisEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("seed-Datei ungültig: %w", err)
	}

	user, err := s.EnsureGenesisUser(genesisUsername)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, entry := range entries {
		if entry.Title == "" || entry.URL == "" {
			s.Logger.Warn("Seed-Eintrag ohne Titel oder URL übersprungen")
			continue
		}
		if !models.ValidCategories[entry.Category] {
			s.Logger.Warn("Seed-Eintrag mit unbekannter Kategorie übersprungen",
				zap.String("url", entry.URL), zap.String("category", entry.Category))
			continue
		}
		if len(entry.Tags) > 10 {
			entry.Tags = entry.Tags[:10]
		}

		var tags datatypes.JSON
		if len(entry.Tags) > 0 {
			b, _ := json.Marshal(entry.Tags)
			tags = b
		}

		resource := models.Resource{
			Title:           entry.Title,
			URL:             entry.URL,
			Category:        entry.Category,
			Tags:            tags,
			DifficultyLevel: entry.DifficultyLevel,
			EstimatedTime:   entry.EstimatedTime,
			SubmittedBy:     user.ID,
			Status:          models.StatusApproved,
			IsGenesis:       true,
		}

		result := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&resource)
		if result.Error != nil {
			s.Logger.Error("Seed-Import fehlgeschlagen",
				zap.String("url", entry.URL), zap.Error(result.Error))
			continue
		}
		if result.RowsAffected > 0 {
			imported++
		}
	}

	s.Logger.Info("Genesis-Import abgeschlossen",
		zap.Int("imported", imported), zap.Int("entries", len(entries)))
	return imported, nil
}
