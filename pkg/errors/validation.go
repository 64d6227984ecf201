package errors

import (
	"strings"
	"unicode"
)

// MaxTreeNameLength bounds tree names before they become file names.
const MaxTreeNameLength = 200

// ValidateTreeName validates a graph name before it is turned into an output
// path. Separators and dots are sanitized later, so only names that cannot
// yield a usable file name are rejected:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of [MaxTreeNameLength] bytes
func ValidateTreeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "tree name cannot be empty")
	}

	if len(name) > MaxTreeNameLength {
		return New(ErrCodeInvalidInput, "tree name too long (max %d characters)", MaxTreeNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "tree name %q contains control characters", name)
		}
	}

	return nil
}

// ValidatePath validates a document path relative to the project root.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateRedisURL checks that a cache URL uses a scheme go-redis understands.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "redis URL must use redis, rediss or unix scheme")
}
