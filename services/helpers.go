package services

import (
	"fmt"
	"strings"
)

const (
	maxLogoSizeBytes  = 5 << 20
	maxImageSizeBytes = 5 << 20
	maxPDFSizeBytes   = 10 << 20
)

var imageExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/png":     "png",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
	"image/gif":     "gif",
}

// GetExtensionFromContentType devuelve la extensión para un content type
// conocido, o un error si el tipo no está permitido.
func GetExtensionFromContentType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct == "application/pdf" {
		return "pdf", nil
	}
	if ext, ok := imageExtensions[ct]; ok {
		return ext, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
}

func validateImageUpload(contentType string, size int64, maxSize int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if _, ok := imageExtensions[ct]; !ok {
		return fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}
	return nil
}

func validatePDFUpload(contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct != "application/pdf" {
		return fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
	}
	if size > maxPDFSizeBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}
	return nil
}
