package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFixtureName validates a fixture name for safety and correctness.
// Fixture names double as baseline keys and file names, so they reject
// anything that could escape a store directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateFixtureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFixture, "fixture name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidFixture, "fixture name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFixture, "fixture name contains invalid control characters")
		}
	}

	if !fixtureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFixture, "invalid fixture name: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidFixture, "fixture name contains invalid characters: %q", "..")
	}

	return nil
}

// fixtureNameRegex matches names made of letters, digits, dot, dash and underscore.
var fixtureNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTag validates a box tag used for lookup in fixtures and snapshots.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidFixture, "box tag cannot be empty")
	}
	if len(tag) > 256 {
		return New(ErrCodeInvalidFixture, "box tag too long (max 256 characters)")
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFixture, "box tag %q contains control characters", tag)
		}
	}
	return nil
}
