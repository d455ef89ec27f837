package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxWidth bounds the rendering width accepted from users and HTTP clients.
const MaxWidth = 20000

// ValidateWidth checks a rendering width. Zero is allowed and means "use the default".
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidWidth, "width must be a finite number")
	}
	if width < 0 {
		return New(ErrCodeInvalidWidth, "width must not be negative, got %v", width)
	}
	if width > MaxWidth {
		return New(ErrCodeInvalidWidth, "width too large (max %d)", MaxWidth)
	}
	return nil
}

// ValidateTotal checks a percentage total override. Zero means "unset".
func ValidateTotal(total int64) error {
	if total < 0 {
		return New(ErrCodeInvalidInput, "total must not be negative, got %d", total)
	}
	return nil
}

// ValidateSearch rejects search strings that cannot be a frame name fragment.
//
// The rules are conservative:
//   - Maximum length of 256 characters
//   - No control characters
func ValidateSearch(text string) error {
	if len(text) > 256 {
		return New(ErrCodeInvalidInput, "search text too long (max 256 characters)")
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "search text contains control characters")
		}
	}
	return nil
}

// ValidatePageSize accepts the page sizes offered by the file list.
func ValidatePageSize(size int) error {
	switch size {
	case 10, 20, 50:
		return nil
	}
	return New(ErrCodeInvalidQuery, "page size must be 10, 20 or 50, got %d", size)
}

// ValidateFilePath validates a local input path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
