package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateTemplateID validates a paper template identifier for safety and
// correctness. It rejects identifiers that could be used for path traversal
// or injection when resolving asset references.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTemplate, "template id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidTemplate, "template id too long (max 128 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "template id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidTemplate, "template id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// templateIDRegex matches well-formed template identifiers: lowercase
// alphanumerics separated by single dashes, e.g. "blank-1" or "lined-college".
var templateIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateTemplateIDStrict validates a template identifier against the
// catalog naming convention. Catalog entries must pass this; ad-hoc
// identifiers from config files only need ValidateTemplateID.
func ValidateTemplateIDStrict(id string) error {
	if err := ValidateTemplateID(id); err != nil {
		return err
	}

	if !templateIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTemplate, "invalid template id: %q", id)
	}

	return nil
}

// hexColorRegex matches #RGB and #RRGGBB hex color notations.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex color string.
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidInk, "color cannot be empty")
	}

	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidInk, "invalid hex color: %q", s)
	}

	return nil
}

// ValidateOpacity validates an opacity value. Opacity must be in (0, 1];
// a fully transparent ink is treated as a configuration mistake.
func ValidateOpacity(v float64) error {
	if v <= 0 || v > 1 {
		return New(ErrCodeInvalidInk, "opacity must be in (0, 1], got %g", v)
	}
	return nil
}

// ValidateQuality validates a quality factor in (0, 1].
func ValidateQuality(v float64) error {
	if v <= 0 || v > 1 {
		return New(ErrCodeInvalidQuality, "quality must be in (0, 1], got %g", v)
	}
	return nil
}

// ValidateAssetRef validates an asset reference: either an http(s) URL or a
// relative file path.
//
// Validation rules for paths:
//   - Reference cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateAssetRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidPath, "asset reference cannot be empty")
	}

	const maxRefLength = 500
	if len(ref) > maxRefLength {
		return New(ErrCodeInvalidPath, "asset reference too long (max %d characters)", maxRefLength)
	}

	// Check for null bytes and control characters
	for _, r := range ref {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset reference contains invalid characters")
		}
	}

	// URLs are validated by scheme only; the fetch client rejects the rest.
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return nil
	}

	// Check for path traversal
	if strings.Contains(ref, "..") {
		return New(ErrCodeInvalidPath, "asset reference cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(ref, "\\") {
		return New(ErrCodeInvalidPath, "asset reference cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
