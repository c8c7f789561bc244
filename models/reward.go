package models

import "time"

// WeeklyReward ist der Snapshot einer wöchentlichen Reward-Berechnung.
// WeekStart ist der natürliche Dedup-Schlüssel: eine bereits berechnete Woche
// wird bei erneutem Aufruf nicht doppelt angelegt.
type WeeklyReward struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	WeekStart time.Time `json:"week_start" gorm:"uniqueIndex;not null"`
	WeekEnd   time.Time `json:"week_end" gorm:"not null"`

	TotalPool float64 `json:"total_pool"`
	// Prozentsatz zum Berechnungszeitpunkt (Snapshot der Platform-Settings).
	DistributionPercentage float64 `json:"distribution_percentage"`

	// CalculationCompletedAt ist das Commit-Signal der Berechnung.
	CalculationCompletedAt *time.Time `json:"calculation_completed_at,omitempty"`
	// DistributedAt wird erst vom externen Payout-Prozess gestempelt.
	DistributedAt *time.Time `json:"distributed_at,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (WeeklyReward) TableName() string {
	return "weekly_rewards"
}

// RewardDistribution ist der Anteil einer Resource an einem WeeklyReward.
// QualityScore ist ein Snapshot zum Berechnungszeitpunkt, nicht live verknüpft.
type RewardDistribution struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	WeeklyRewardID uint `json:"weekly_reward_id" gorm:"index;not null"`
	ResourceID     uint `json:"resource_id" gorm:"not null"`
	UserID         uint `json:"user_id" gorm:"index;not null"`

	Rank         int     `json:"rank" gorm:"not null"`
	Amount       float64 `json:"amount" gorm:"not null"`
	QualityScore float64 `json:"quality_score"`

	// TxHash wird vom externen Payout-Prozess geschrieben.
	TxHash string `json:"tx_hash,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (RewardDistribution) TableName() string {
	return "reward_distributions"
}
