package util

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidFileName is returned when nothing usable is left of a file name.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName reduces a client-supplied file name to an ASCII-only base
// name that is safe to use on disk. Any directory part, with either "/" or "\"
// separators, is discarded. Whitespace runs collapse to "_", anything outside
// [A-Za-z0-9_.-] is dropped and leading/trailing dots and underscores are
// trimmed.
func SanitizeFileName(name string) (string, error) {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	folded := norm.NFKD.String(name)

	var ascii strings.Builder
	ascii.Grow(len(folded))
	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue
		}
		ascii.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var clean strings.Builder
	clean.Grow(len(joined))
	for _, r := range joined {
		if isSafeFileNameRune(r) {
			clean.WriteRune(r)
		}
	}

	s := strings.Trim(clean.String(), "._")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}

func isSafeFileNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	}
	return false
}
