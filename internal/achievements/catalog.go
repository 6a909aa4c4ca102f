package achievements

import "github.com/iamhollywoodpro/strivetrack/internal/models"

func def(id, name, desc, icon, category string, rarity models.Rarity, points int, req models.RequirementType, target int) models.AchievementDefinition {
	return models.AchievementDefinition{
		ID:          id,
		Name:        name,
		Description: desc,
		Icon:        icon,
		Category:    category,
		Rarity:      rarity,
		Points:      points,
		Requirement: models.Requirement{Type: req, Target: target},
	}
}

var catalog = []models.AchievementDefinition{
	def("first_login", "Welcome to StriveTrack", "Complete your first login to StriveTrack", "🎉", "onboarding", models.RarityCommon, 50, models.RequirementLoginCount, 1),
	def("first_habit", "Habit Creator", "Create your first fitness habit", "🎯", "onboarding", models.RarityCommon, 100, models.RequirementHabitsCreated, 1),
	def("first_completion", "First Steps", "Complete your first habit for the day", "✅", "onboarding", models.RarityCommon, 75, models.RequirementTotalCompletions, 1),
	def("habit_streak_3", "Getting Started", "Maintain a 3-day habit streak", "🔥", "habits", models.RarityCommon, 150, models.RequirementMaxStreak, 3),
	def("habit_streak_7", "Weekly Warrior", "Maintain a 7-day habit streak", "🏆", "habits", models.RarityRare, 300, models.RequirementMaxStreak, 7),
	def("habit_streak_30", "Monthly Master", "Maintain a 30-day habit streak", "🎆", "habits", models.RarityEpic, 1000, models.RequirementMaxStreak, 30),
	def("habit_streak_100", "Centurion", "Maintain a 100-day habit streak", "👑", "habits", models.RarityLegendary, 5000, models.RequirementMaxStreak, 100),
	def("completions_10", "Committed", "Complete 10 total habits", "💪", "consistency", models.RarityCommon, 200, models.RequirementTotalCompletions, 10),
	def("completions_50", "Dedicated", "Complete 50 total habits", "⭐", "consistency", models.RarityRare, 500, models.RequirementTotalCompletions, 50),
	def("completions_100", "Unstoppable", "Complete 100 total habits", "🎆", "consistency", models.RarityEpic, 1500, models.RequirementTotalCompletions, 100),
	def("first_upload", "Picture Perfect", "Upload your first progress photo", "📸", "progress", models.RarityCommon, 100, models.RequirementMediaUploads, 1),
	def("progress_tracker", "Progress Tracker", "Upload 10 progress photos", "📷", "progress", models.RarityRare, 400, models.RequirementMediaUploads, 10),
	def("points_1000", "Point Collector", "Earn 1,000 total points", "💰", "challenges", models.RarityRare, 250, models.RequirementTotalPoints, 1000),
	def("points_5000", "Point Master", "Earn 5,000 total points", "💸", "challenges", models.RarityEpic, 500, models.RequirementTotalPoints, 5000),
}

// Catalog returns the achievement definitions in evaluation order.
func Catalog() []models.AchievementDefinition {
	out := make([]models.AchievementDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a definition by id.
func Lookup(id string) (models.AchievementDefinition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return models.AchievementDefinition{}, false
}
