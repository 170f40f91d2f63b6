package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a project identifier (id or slug) for safety.
// It rejects values that could escape the URL path segment they are placed in.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//
// Platform-specific validation (numeric CurseForge ids, owner/repo pairs)
// is done by the dedicated validators below.
func ValidateIdentifier(platform, id string) error {
	if id == "" {
		return Missing(platform, "id")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s: identifier too long (max 256 characters)", platform)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s: identifier %q contains invalid control characters", platform, id)
		}
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, "/\\?#") {
		return New(ErrCodeInvalidInput, "%s: identifier %q contains invalid characters", platform, id)
	}

	return nil
}

var numericIDRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidateNumericID validates identifiers of platforms that only accept
// numeric project ids, such as the CurseForge upload API.
func ValidateNumericID(platform, id string) error {
	if err := ValidateIdentifier(platform, id); err != nil {
		return err
	}
	if !numericIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "%s: project id must be numeric, got %q", platform, id)
	}
	return nil
}

// ValidateFilePath validates a local file path before it is opened for upload.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "file path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "file path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file path %q contains invalid characters", path)
		}
	}

	return nil
}
