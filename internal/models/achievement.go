package models

import "time"

type RequirementType string

const (
	RequirementLoginCount       RequirementType = "login_count"
	RequirementHabitsCreated    RequirementType = "habits_created"
	RequirementTotalCompletions RequirementType = "total_completions"
	RequirementMaxStreak        RequirementType = "max_streak"
	RequirementTotalPoints      RequirementType = "total_points"
	RequirementMediaUploads     RequirementType = "media_uploads"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type Requirement struct {
	Type   RequirementType `json:"type"`
	Target int             `json:"target"`
}

// AchievementDefinition is a static catalog entry.
type AchievementDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
	Rarity      Rarity      `json:"rarity"`
	Points      int         `json:"points"`
	Requirement Requirement `json:"requirement"`
}

// AchievementUnlock is the persisted state of one unlocked achievement.
// Once stored it is never changed.
type AchievementUnlock struct {
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at"`
	Progress   int       `json:"progress"`
	Target     int       `json:"target"`
}

// Unlocks maps achievement id to unlock state.
type Unlocks map[string]AchievementUnlock
