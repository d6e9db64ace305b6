package models

import "testing"

func TestMoodEmoji(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{-3, "😢"},
		{1, "😢"},
		{2, "😢"},
		{3, "😟"},
		{5, "😐"},
		{6, "😐"},
		{8, "🙂"},
		{9, "😄"},
		{10, "😄"},
		{42, "😄"},
	}

	for _, tt := range tests {
		if got := MoodEmoji(tt.value); got != tt.want {
			t.Errorf("MoodEmoji(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDefaultBadgesIsACopy(t *testing.T) {
	first := DefaultBadges()
	if len(first) != 5 {
		t.Fatalf("DefaultBadges() returned %d badges, want 5", len(first))
	}
	for _, b := range first {
		if b.Unlocked {
			t.Errorf("badge %s starts unlocked", b.ID)
		}
	}

	first[0].Unlocked = true
	second := DefaultBadges()
	if second[0].Unlocked {
		t.Error("mutating a DefaultBadges() result leaked into the catalog")
	}
}

func TestIsKnownBadge(t *testing.T) {
	if !IsKnownBadge(BadgeStreak7) {
		t.Error("IsKnownBadge(streak_7) = false, want true")
	}
	if IsKnownBadge(BadgeID("streak_30")) {
		t.Error("IsKnownBadge(streak_30) = true, want false")
	}
}
