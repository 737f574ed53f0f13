// Package id generates unique identifiers for domain records.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixLen is the number of random characters appended after the timestamp.
// 8 characters of the default NanoID alphabet is plenty to disambiguate
// records created within the same millisecond.
const suffixLen = 8

// Generate creates a prefixed unique ID derived from the creation time.
// Format: prefix-millis-suffix (e.g. "book-1747501234567-Xk3pQz9a").
//
// The millisecond timestamp keeps IDs sortable by creation order; the NanoID
// suffix guarantees uniqueness when two records are created in the same
// millisecond.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.New(suffixLen)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
