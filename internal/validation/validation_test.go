package validation

import (
	"errors"
	"reflect"
	"testing"
)

func TestEntryContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "  \n\t ", true},
		{"text", "Coffee with an old friend", false},
		{"padded text", "  sunshine  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EntryContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("EntryContent(%q) error = %v, wantErr %v", tt.content, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyContent) {
				t.Errorf("EntryContent(%q) error = %v, want ErrEmptyContent", tt.content, err)
			}
		})
	}
}

func TestMoodValue(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{5, false},
		{10, false},
		{11, true},
	}

	for _, tt := range tests {
		err := MoodValue(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("MoodValue(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMoodOutOfRange) {
			t.Errorf("MoodValue(%d) error = %v, want ErrMoodOutOfRange", tt.value, err)
		}
	}
}

func TestUsername(t *testing.T) {
	got, err := Username("  mei  ")
	if err != nil || got != "mei" {
		t.Errorf("Username() = (%q, %v), want (mei, nil)", got, err)
	}
	if _, err := Username("   "); !errors.Is(err, ErrEmptyUsername) {
		t.Errorf("Username(blank) error = %v, want ErrEmptyUsername", err)
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{" family", "", "walk", "family", "  "})
	want := []string{"family", "walk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
	if got := Tags(nil); got == nil || len(got) != 0 {
		t.Errorf("Tags(nil) = %#v, want empty non-nil slice", got)
	}
}
