package models

import "time"

type MoodLog struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Value int       `json:"value"` // 1-10
	Note  string    `json:"note,omitempty"`
}

var moodEmojis = []string{"😢", "😟", "😐", "🙂", "😄"}

// MoodEmoji maps a mood value to one of five faces: 1-2, 3-4, 5-6, 7-8, 9-10.
// Values outside the scale are clamped to the nearest face.
func MoodEmoji(value int) string {
	idx := (value+1)/2 - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(moodEmojis) {
		idx = len(moodEmojis) - 1
	}
	return moodEmojis[idx]
}
