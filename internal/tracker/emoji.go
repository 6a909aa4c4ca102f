package tracker

import "strings"

type emojiRule struct {
	words []string
	emoji string
}

// First match wins, so more specific words come first.
var habitEmojis = []emojiRule{
	{[]string{"exercise", "workout", "gym"}, "💪"},
	{[]string{"run", "jog"}, "🏃"},
	{[]string{"walk", "steps"}, "🚶"},
	{[]string{"swim", "pool"}, "🏊"},
	{[]string{"bike", "cycle"}, "🚴"},
	{[]string{"yoga", "stretch"}, "🧘"},
	{[]string{"lift", "weight"}, "🏋️"},
	{[]string{"water", "hydrat"}, "💧"},
	{[]string{"sleep", "rest"}, "😴"},
	{[]string{"meditat", "mindful"}, "🧘"},
	{[]string{"vitamin", "supplement"}, "💊"},
	{[]string{"eat", "food"}, "🍽️"},
	{[]string{"fruit"}, "🍎"},
	{[]string{"vegetable", "salad"}, "🥗"},
	{[]string{"protein"}, "🍗"},
	{[]string{"read", "book"}, "📚"},
	{[]string{"write", "journal"}, "✍️"},
	{[]string{"learn", "course"}, "🎓"},
	{[]string{"work", "productive"}, "💼"},
	{[]string{"family", "friend"}, "👥"},
	{[]string{"call", "phone"}, "📞"},
	{[]string{"clean", "organize"}, "🧹"},
	{[]string{"money", "save"}, "💰"},
	{[]string{"music", "sing"}, "🎵"},
	{[]string{"art", "draw"}, "🎨"},
	{[]string{"garden", "plant"}, "🌱"},
	{[]string{"photo", "picture"}, "📸"},
	{[]string{"daily"}, "📅"},
	{[]string{"morning"}, "🌅"},
	{[]string{"evening", "night"}, "🌙"},
}

const defaultEmoji = "🎯"

// HabitEmoji picks an icon from keywords in the habit name.
func HabitEmoji(name string) string {
	name = strings.ToLower(name)
	if name == "" {
		return defaultEmoji
	}
	for _, r := range habitEmojis {
		for _, w := range r.words {
			if strings.Contains(name, w) {
				return r.emoji
			}
		}
	}
	return defaultEmoji
}
