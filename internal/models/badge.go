package models

type BadgeID string

const (
	BadgeFirstStep   BadgeID = "first_step"
	BadgeStreak3     BadgeID = "streak_3"
	BadgeStreak7     BadgeID = "streak_7"
	BadgeMoodMaster  BadgeID = "mood_master"
	BadgeCBTExplorer BadgeID = "cbt_explorer"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Unlocked    bool    `json:"unlocked"`
}

var badgeCatalog = []Badge{
	{ID: BadgeFirstStep, Name: "First Step", Description: "Write your first gratitude entry", Icon: "🌱"},
	{ID: BadgeStreak3, Name: "Three in a Row", Description: "Journal 3 days in a row", Icon: "🔥"},
	{ID: BadgeStreak7, Name: "Full Circle", Description: "Journal 7 days in a row", Icon: "🌟"},
	{ID: BadgeMoodMaster, Name: "Mood Watcher", Description: "Log your mood 10 times", Icon: "🧠"},
	{ID: BadgeCBTExplorer, Name: "Reframer", Description: "Talk a thought through with the CBT coach", Icon: "💡"},
}

// DefaultBadges returns a fresh copy of the fixed badge set, all locked.
func DefaultBadges() []Badge {
	out := make([]Badge, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

// IsKnownBadge reports whether id belongs to the fixed badge set.
func IsKnownBadge(id BadgeID) bool {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return true
		}
	}
	return false
}
