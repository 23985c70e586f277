package photos

import (
	"fmt"
	"strings"
)

// MaxFileSize caps product photo uploads at 5MB.
const MaxFileSize = 5 * 1024 * 1024

// AllowedTypes is the declared-MIME allow-list for product photos.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"}

// ValidateFile checks the declared content type and size of an upload before
// any remote call is made. Pure; no side effects.
func ValidateFile(contentType string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: file size must be less than %dMB, current size: %dMB",
			ErrFileTooLarge, MaxFileSize/1024/1024, size/1024/1024)
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range AllowedTypes {
		if ct == allowed {
			return nil
		}
	}

	return fmt.Errorf("%w: %q, allowed types: %s",
		ErrUnsupportedType, contentType, strings.Join(AllowedTypes, ", "))
}
