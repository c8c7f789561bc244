package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stumble-higher/models"
)

// voteChange ist das Post-Commit-Event einer Vote-Mutation.
type voteChange struct {
	ResourceID uint
	UserID     uint
}

// ScoreWorker konsumiert VoteChanged-Events und berechnet gebatcht die
// Resource-Scores und Voter-Reputationen neu. Treffen viele Votes in kurzer
// Zeit dieselbe Resource, wird pro Flush-Fenster nur einmal neu berechnet.
// Fehlgeschlagene Neuberechnungen werden nur geloggt; der nächste Vote oder
// der Reconciliation-Cron heilt den Zustand.
type ScoreWorker struct {
	Scoring *ScoringService
	Logger  *zap.Logger

	events  chan voteChange
	flushMs time.Duration

	mu           sync.Mutex
	pendingRes   map[uint]struct{}
	pendingUsers map[uint]struct{}
}

// NewScoreWorker erstellt einen neuen ScoreWorker.
func NewScoreWorker(scoring *ScoringService, logger *zap.Logger) *ScoreWorker {
	return &ScoreWorker{
		Scoring:      scoring,
		Logger:       logger,
		events:       make(chan voteChange, 1024),
		flushMs:      2 * time.Second,
		pendingRes:   make(map[uint]struct{}),
		pendingUsers: make(map[uint]struct{}),
	}
}

// NotifyVoteChanged meldet eine Vote-Mutation. Nicht blockierend: läuft der
// Event-Puffer voll, wird das Event verworfen und die Reconciliation holt es nach.
func (w *ScoreWorker) NotifyVoteChanged(resourceID, userID uint) {
	select {
	case w.events <- voteChange{ResourceID: resourceID, UserID: userID}:
	default:
		w.Logger.Warn("Score-Worker Eventpuffer voll, Event verworfen",
			zap.Uint("resource_id", resourceID))
	}
}

// Start verarbeitet Events bis der Kontext beendet wird.
func (w *ScoreWorker) Start(ctx context.Context) {
	w.Logger.Info("Score-Worker gestartet", zap.Duration("flush_window", w.flushMs))

	ticker := time.NewTicker(w.flushMs)
	defer ticker.Stop()

	for {
		select {
		case ev := <-w.events:
			w.mu.Lock()
			w.pendingRes[ev.ResourceID] = struct{}{}
			w.pendingUsers[ev.UserID] = struct{}{}
			w.mu.Unlock()
		case <-ticker.C:
			w.flush()
		case <-ctx.Done():
			w.flush()
			w.Logger.Info("Score-Worker gestoppt")
			return
		}
	}
}

// flush berechnet alle wartenden Resources und Nutzer neu.
func (w *ScoreWorker) flush() {
	w.mu.Lock()
	if len(w.pendingRes) == 0 && len(w.pendingUsers) == 0 {
		w.mu.Unlock()
		return
	}
	resources := w.pendingRes
	users := w.pendingUsers
	w.pendingRes = make(map[uint]struct{})
	w.pendingUsers = make(map[uint]struct{})
	w.mu.Unlock()

	for resourceID := range resources {
		transition, err := w.Scoring.RecalculateResource(resourceID)
		if err != nil {
			scoreRecalcErrors.Inc()
			w.Logger.Error("Score-Neuberechnung fehlgeschlagen",
				zap.Uint("resource_id", resourceID), zap.Error(err))
			continue
		}
		switch transition {
		case models.StatusApproved:
			autoApprovedCounter.Inc()
		case models.StatusHidden:
			autoHiddenCounter.Inc()
		}
	}

	for userID := range users {
		if err := w.Scoring.RecalculateUserReputation(userID); err != nil {
			scoreRecalcErrors.Inc()
			w.Logger.Error("Reputations-Neuberechnung fehlgeschlagen",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}
}
