package models

import "time"

type JournalEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	AIInsight string    `json:"ai_insight,omitempty"`
}

// HasInsight reports whether the coach has already commented on the entry.
func (e JournalEntry) HasInsight() bool {
	return e.AIInsight != ""
}
