package persist

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalidMapName = errors.New("persist: invalid map name")

// DefaultMaxNameLen is the name cap used by the map service.
const DefaultMaxNameLen = 10

// ValidateName trims name and checks it is non-empty and, when limit > 0, no
// longer than limit characters. It returns the trimmed name.
func ValidateName(name string, limit int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidMapName)
	}
	if n := utf8.RuneCountInString(name); limit > 0 && n > limit {
		return "", fmt.Errorf("%w: %d characters, at most %d allowed", ErrInvalidMapName, n, limit)
	}
	return name, nil
}
