package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/gratilog/internal/constants"
)

var (
	ErrEmptyContent   = errors.New("entry content cannot be empty")
	ErrMoodOutOfRange = errors.New("mood value out of range")
	ErrEmptyUsername  = errors.New("username cannot be empty")
)

// EntryContent rejects content that is empty once surrounding whitespace is removed.
func EntryContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// MoodValue accepts integers in the inclusive mood scale.
func MoodValue(value int) error {
	if value < constants.MoodMin || value > constants.MoodMax {
		return fmt.Errorf("%w: %d (expected %d-%d)", ErrMoodOutOfRange, value, constants.MoodMin, constants.MoodMax)
	}
	return nil
}

// Username trims the name and rejects it if nothing is left.
func Username(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyUsername
	}
	return name, nil
}

// Tags trims each tag and drops blanks and repeats, keeping first-seen order.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
