package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stumble-higher/config"
	"stumble-higher/models"
	"stumble-higher/services"
	"stumble-higher/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	newResourcesCounter prometheus.Counter
	votesCastCounter    prometheus.Counter
	stumblesCounter     *prometheus.CounterVec
)

func init() {
	newResourcesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "new_resources_submitted_total",
			Help: "Total number of new resources submitted.",
		},
	)
	votesCastCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "votes_cast_total",
			Help: "Total number of processed vote operations.",
		},
	)
	stumblesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stumbles_served_total",
			Help: "Total number of stumbles served, by algorithm actually used.",
		},
		[]string{"algorithm"},
	)
	prometheus.MustRegister(newResourcesCounter, votesCastCounter, stumblesCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.User{},
		&models.Resource{},
		&models.Vote{},
		&models.UserInteraction{},
		&models.UserPreference{},
		&models.WeeklyReward{},
		&models.RewardDistribution{},
		&models.PlatformSetting{},
	)

	// Seeding
	seedDefaultSettings(db, logging)

	// Setup Services
	settingsService := services.NewSettingsService(db, logging)
	// Fehlende Settings sind ein fataler Startup-Fehler, kein stilles Defaulting.
	if _, err := settingsService.LoadThresholds(); err != nil {
		logging.Fatal("Platform settings incomplete", zap.Error(err))
	}

	genesisService := services.NewGenesisService(db, logging)
	if _, err := genesisService.EnsureGenesisUser(cfg.GenesisUsername); err != nil {
		logging.Fatal("Genesis user setup failed", zap.Error(err))
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	scoringService := services.NewScoringService(db, settingsService, logging)
	scoreWorker := services.NewScoreWorker(scoringService, logging)
	voteService := services.NewVoteService(db, settingsService, scoreWorker, logging)
	interactionService := services.NewInteractionService(db, scoreWorker, logging)
	trendingService := services.NewTrendingService(db, logging)
	discoveryService := services.NewDiscoveryService(db, logging)
	rewardService := services.NewRewardService(db, settingsService, cfg, s3Client, logging)

	go scoreWorker.Start(context.Background())

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "stumble-higher"})
	})

	// Setup Routes
	setupResourceRoutes(router, db, scoringService, logging)
	setupVoteRoutes(router, voteService, scoringService, logging)
	setupDiscoveryRoutes(router, discoveryService, logging)
	setupInteractionRoutes(router, interactionService, logging)
	setupUserRoutes(router, db, logging)
	setupRewardRoutes(router, db, rewardService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.TrendingCronSchedule, func() {
		logging.Info("Running scheduled trending recalculation...")
		count, err := trendingService.RecalculateAll()
		if err != nil {
			logging.Error("Trending cron job failed", zap.Error(err))
		} else {
			logging.Info("Trending cron job completed", zap.Int("resources", count))
		}
	})
	cronScheduler.AddFunc(cfg.RewardCronSchedule, func() {
		weekStart := startOfPreviousWeek(time.Now().UTC())
		logging.Info("Running scheduled weekly reward distribution...", zap.Time("week_start", weekStart))
		reward, err := rewardService.ComputeWeek(weekStart)
		if err != nil {
			logging.Error("Reward cron job failed", zap.Error(err))
		} else {
			logging.Info("Reward cron job completed",
				zap.Uint("weekly_reward_id", reward.ID), zap.Float64("pool", reward.TotalPool))
		}
	})
	cronScheduler.AddFunc(cfg.ReconcileCronSchedule, func() {
		logging.Info("Running scheduled score reconciliation...")
		count, err := scoringService.ReconcileRecent(6 * time.Hour)
		if err != nil {
			logging.Error("Reconciliation cron job failed", zap.Error(err))
		} else {
			logging.Info("Reconciliation cron job completed", zap.Int("resources", count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// startOfPreviousWeek liefert den Montag 00:00 UTC der Vorwoche.
func startOfPreviousWeek(now time.Time) time.Time {
	now = now.Truncate(24 * time.Hour)
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sonntag als Wochenende behandeln
	}
	startOfThisWeek := now.AddDate(0, 0, -(weekday - 1))
	return startOfThisWeek.AddDate(0, 0, -7)
}

func setupResourceRoutes(router *gin.Engine, db *gorm.DB, scoring *services.ScoringService, log *zap.Logger) {
	rg := router.Group("/resources")

	// POST - Neue Resource einreichen (Status pending, Duplikat-URL = Konflikt)
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Title            string   `json:"title" binding:"required"`
			URL              string   `json:"url" binding:"required"`
			Category         string   `json:"category" binding:"required"`
			Tags             []string `json:"tags"`
			DifficultyLevel  string   `json:"difficulty_level"`
			EstimatedTime    int      `json:"estimated_time_minutes"`
			SubmittedBy      uint     `json:"submitted_by" binding:"required"`
			SubmissionAmount float64  `json:"submission_amount"`
			SubmissionTxHash *string  `json:"submission_tx_hash"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if !models.ValidCategories[req.Category] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		if req.DifficultyLevel != "" && !models.ValidDifficulties[req.DifficultyLevel] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid difficulty_level"})
			return
		}
		if len(req.Tags) > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at most 10 tags allowed"})
			return
		}

		var submitter models.User
		if err := db.First(&submitter, req.SubmittedBy).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "submitter not found"})
			return
		}
		if submitter.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "user is suspended"})
			return
		}

		// Duplikat-Check vor dem Insert
		var count int64
		db.Model(&models.Resource{}).Where("url = ?", req.URL).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "resource with this url already exists"})
			return
		}

		resource := models.Resource{
			Title:            req.Title,
			URL:              req.URL,
			Category:         req.Category,
			DifficultyLevel:  req.DifficultyLevel,
			EstimatedTime:    req.EstimatedTime,
			SubmittedBy:      req.SubmittedBy,
			Status:           models.StatusPending,
			SubmissionAmount: req.SubmissionAmount,
			SubmissionTxHash: req.SubmissionTxHash,
		}
		if len(req.Tags) > 0 {
			b, _ := json.Marshal(req.Tags)
			resource.Tags = b
		}

		if err := db.Create(&resource).Error; err != nil {
			log.Error("Failed to create resource", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
			return
		}

		newResourcesCounter.Inc()
		log.Info("Resource submitted", zap.Uint("id", resource.ID), zap.String("url", resource.URL))
		c.JSON(http.StatusCreated, resource)
	})

	// GET - Resource per ID
	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, resource)
	})

	// POST - Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type ResourceQuery struct {
			Category    string   `json:"category"`
			Difficulty  string   `json:"difficulty_level"`
			Status      string   `json:"status"`
			SubmittedBy *uint    `json:"submitted_by"`
			MinQuality  *float64 `json:"min_quality"`
			IsGenesis   *bool    `json:"is_genesis"`
			Limit       int      `json:"limit"`
		}

		var req ResourceQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Resource{})
		if req.Category != "" {
			query = query.Where("category = ?", req.Category)
		}
		if req.Difficulty != "" {
			query = query.Where("difficulty_level = ?", req.Difficulty)
		}
		if req.Status != "" {
			query = query.Where("status = ?", req.Status)
		}
		if req.SubmittedBy != nil {
			query = query.Where("submitted_by = ?", *req.SubmittedBy)
		}
		if req.MinQuality != nil {
			query = query.Where("quality_score >= ?", *req.MinQuality)
		}
		if req.IsGenesis != nil {
			query = query.Where("is_genesis = ?", *req.IsGenesis)
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var resources []models.Resource
		if err := query.Order("quality_score desc, created_at desc").Find(&resources).Error; err != nil {
			log.Error("Database query for resources failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, resources)
	})

	// PATCH - Admin-Moderation: erlaubte Übergänge sind approved<->hidden und
	// pending->rejected; alles andere läuft über die Auto-Moderation.
	rg.PATCH("/:id/status", func(c *gin.Context) {
		id := c.Param("id")
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		previousStatus := resource.Status
		if !moderationTransitionAllowed(previousStatus, req.Status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "invalid status transition",
				"from":  previousStatus,
				"to":    req.Status,
			})
			return
		}

		if err := db.Model(&resource).Update("status", req.Status).Error; err != nil {
			log.Error("Failed to update resource status", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
			return
		}

		log.Info("Resource moderated",
			zap.String("id", id),
			zap.String("from", previousStatus),
			zap.String("to", req.Status))
		c.JSON(http.StatusOK, gin.H{"id": resource.ID, "status": req.Status})
	})
}

// moderationTransitionAllowed prüft die manuell erlaubten Statusübergänge.
func moderationTransitionAllowed(from, to string) bool {
	switch from {
	case models.StatusApproved:
		return to == models.StatusHidden
	case models.StatusHidden:
		return to == models.StatusApproved
	case models.StatusPending:
		return to == models.StatusRejected
	default:
		return false
	}
}

func setupVoteRoutes(router *gin.Engine, votes *services.VoteService, scoring *services.ScoringService, log *zap.Logger) {
	rg := router.Group("/votes")

	// POST - Vote abgeben (Toggle-Semantik, siehe services.VoteService)
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			ResourceID uint   `json:"resource_id" binding:"required"`
			UserID     uint   `json:"user_id" binding:"required"`
			VoteType   string `json:"vote_type" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'resource_id', 'user_id' and 'vote_type' are required."})
			return
		}

		result, err := votes.Cast(req.ResourceID, req.UserID, req.VoteType)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidVoteType),
				errors.Is(err, services.ErrSelfVote),
				errors.Is(err, services.ErrResourceNotVotable),
				errors.Is(err, services.ErrUserSuspended):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "resource or user not found"})
			default:
				log.Error("Vote failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			}
			return
		}

		votesCastCounter.Inc()
		c.JSON(http.StatusOK, result)
	})

	// POST - Standalone-Neuberechnung für die Reconciliation
	rg.POST("/recompute", func(c *gin.Context) {
		var req struct {
			ResourceID uint `json:"resource_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'resource_id' is required."})
			return
		}

		transition, err := scoring.RecalculateResource(req.ResourceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
				return
			}
			log.Error("Manual recompute failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recompute failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recomputed": true, "transition": transition})
	})
}

func setupDiscoveryRoutes(router *gin.Engine, discovery *services.DiscoveryService, log *zap.Logger) {
	// GET - Der Kern-Endpunkt: nächste Resource(s) für einen Stumble
	router.GET("/stumble", func(c *gin.Context) {
		req := services.DiscoveryRequest{
			Algorithm:  c.DefaultQuery("algorithm", services.AlgorithmPersonalized),
			Category:   c.Query("category"),
			Difficulty: c.Query("difficulty"),
		}

		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
				return
			}
			uid := uint(id)
			req.UserID = &uid
		}
		if v := c.Query("max_time"); v != "" {
			req.MaxTime, _ = strconv.Atoi(v)
		}
		if v := c.Query("limit"); v != "" {
			req.Limit, _ = strconv.Atoi(v)
		}
		// exclude_ids: kommaseparierte Liste bereits gesehener Resources
		if v := c.Query("exclude_ids"); v != "" {
			for _, part := range strings.Split(v, ",") {
				id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
				if err != nil {
					continue
				}
				req.ExcludeIDs = append(req.ExcludeIDs, uint(id))
			}
		}

		result, err := discovery.SelectNext(req)
		if err != nil {
			if errors.Is(err, services.ErrUnknownAlgorithm) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("Stumble selection failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		stumblesCounter.WithLabelValues(result.AlgorithmUsed).Inc()
		c.JSON(http.StatusOK, result)
	})
}

func setupInteractionRoutes(router *gin.Engine, interactions *services.InteractionService, log *zap.Logger) {
	rg := router.Group("/interactions")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			UserID          *uint           `json:"user_id"`
			SessionID       string          `json:"session_id"`
			ResourceID      uint            `json:"resource_id" binding:"required"`
			InteractionType string          `json:"interaction_type" binding:"required"`
			Metadata        json.RawMessage `json:"metadata"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.UserID == nil && req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or session_id required"})
			return
		}

		interaction, err := interactions.Log(req.UserID, req.SessionID, req.ResourceID, req.InteractionType, []byte(req.Metadata))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, interaction)
	})
}

func setupUserRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/users")

	// POST - Nutzer anlegen (Identity-Verifikation übernimmt die Auth-Schicht davor)
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Username      string `json:"username" binding:"required"`
			WalletAddress string `json:"wallet_address"`
			FarcasterID   string `json:"farcaster_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user := models.User{
			Username:      req.Username,
			WalletAddress: req.WalletAddress,
			FarcasterID:   req.FarcasterID,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, user)
	})

	// PUT - Discovery-Präferenzen setzen (Upsert pro Nutzer)
	rg.PUT("/:id/preferences", func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var req struct {
			PreferredCategories []string `json:"preferred_categories"`
			ExcludedCategories  []string `json:"excluded_categories"`
			MaxTimeMinutes      int      `json:"max_time_minutes"`
			ExcludeViewed       bool     `json:"exclude_viewed"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		for _, cat := range append(req.PreferredCategories, req.ExcludedCategories...) {
			if !models.ValidCategories[cat] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category: " + cat})
				return
			}
		}

		prefs := models.UserPreference{
			UserID:         uint(userID),
			MaxTimeMinutes: req.MaxTimeMinutes,
			ExcludeViewed:  req.ExcludeViewed,
		}
		if len(req.PreferredCategories) > 0 {
			b, _ := json.Marshal(req.PreferredCategories)
			prefs.PreferredCategories = b
		}
		if len(req.ExcludedCategories) > 0 {
			b, _ := json.Marshal(req.ExcludedCategories)
			prefs.ExcludedCategories = b
		}

		var existing models.UserPreference
		err = db.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			prefs.ID = existing.ID
			err = db.Save(&prefs).Error
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.Create(&prefs).Error
		}
		if err != nil {
			log.Error("Failed to save preferences", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
			return
		}
		c.JSON(http.StatusOK, prefs)
	})
}

func setupRewardRoutes(router *gin.Engine, db *gorm.DB, rewards *services.RewardService, log *zap.Logger) {
	rg := router.Group("/rewards")

	// POST - Wochen-Berechnung manuell anstoßen (idempotent pro week_start)
	rg.POST("/weekly", func(c *gin.Context) {
		var req struct {
			WeekStart string `json:"week_start" binding:"required"` // Format 2006-01-02
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'week_start' is required."})
			return
		}
		weekStart, err := time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be formatted as YYYY-MM-DD"})
			return
		}

		reward, err := rewards.ComputeWeek(weekStart)
		if err != nil {
			log.Error("Weekly reward computation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reward computation failed"})
			return
		}
		c.JSON(http.StatusOK, reward)
	})

	// GET - Wochen-Snapshot inkl. Verteilungen
	rg.GET("/weekly/:week_start", func(c *gin.Context) {
		weekStart, err := time.Parse("2006-01-02", c.Param("week_start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be formatted as YYYY-MM-DD"})
			return
		}

		var reward models.WeeklyReward
		if err := db.Where("week_start = ?", weekStart.UTC().Truncate(24*time.Hour)).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no reward batch for this week"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var distributions []models.RewardDistribution
		if err := db.Where("weekly_reward_id = ?", reward.ID).Order("rank asc").Find(&distributions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reward":        reward,
			"distributions": distributions,
		})
	})
}

func seedDefaultSettings(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.PlatformSetting{}).Count(&count)
	if count > 0 {
		return
	}
	settings := []models.PlatformSetting{
		{Key: models.SettingAutoApproveThreshold, Value: "10"},
		{Key: models.SettingAutoHideThreshold, Value: "-5"},
		{Key: models.SettingMinVotesForAutoAction, Value: "3"},
		{Key: models.SettingWeeklyDistributionPct, Value: "80"},
		{Key: models.SettingMaxReputationWeight, Value: "5"},
	}
	if err := db.Create(&settings).Error; err != nil {
		logger.Warn("Failed to seed default platform settings", zap.Error(err))
	} else {
		logger.Info("Default platform settings seeded.")
	}
}
