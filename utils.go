package foldery

import (
	"fmt"
	"strings"
)

const (
	minBucketNameLen = 3
	maxBucketNameLen = 63
)

// SanitizeBucketName turns an arbitrary string into a bucket name.
// It:
//   - lowercases the input
//   - replaces spaces with hyphens
//   - drops every character outside [a-z0-9-]
//   - trims leading and trailing hyphens
//
// The result must be between 3 and 63 characters long, otherwise an
// ErrInvalidIdentifier error is returned. Sanitizing an already sanitized
// name returns it unchanged.
func SanitizeBucketName(name string) (string, error) {
	lowered := strings.ToLower(name)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, lowered)
	cleaned = strings.Trim(cleaned, "-")

	if len(cleaned) < minBucketNameLen || len(cleaned) > maxBucketNameLen {
		return "", E(KindInvalidIdentifier, "sanitize bucket name", fmt.Sprintf("Invalid bucket name: %s.", cleaned))
	}

	return cleaned, nil
}

// BucketName derives the canonical bucket name for a folder.
func BucketName(prefix, id, owner string) (string, error) {
	return SanitizeBucketName(prefix + id + "-" + owner)
}
