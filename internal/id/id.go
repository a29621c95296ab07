// Package id generates the prefixed identifiers used for users, books and notes.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. IDs look like "book-V1StGXR8_Z5jdHi6B-myT".
const (
	PrefixUser = "user"
	PrefixBook = "book"
	PrefixNote = "note"
)

// Generate creates a prefixed NanoID (21 URL-safe characters after the prefix).
// It fails only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"-") && len(id) > len(prefix)+1
}
