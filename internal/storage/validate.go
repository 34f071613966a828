package storage

import (
	"path/filepath"
	"strings"

	"sankalp/pkg/types"
)

// MaxDocumentsPerClaim caps attachments on a single claim filing.
const MaxDocumentsPerClaim = 5

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

var allowedContentTypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// ValidateDocument checks a claim attachment against the allow-lists. Both
// the file extension and the declared content type must be recognized, and
// the size must not exceed maxBytes. Returns the document type (the extension
// without its dot) on success.
func ValidateDocument(fileName, contentType string, size, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", types.ErrUnsupportedDocumentType
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if _, ok := allowedContentTypes[mediaType]; !ok {
		return "", types.ErrUnsupportedDocumentType
	}

	if maxBytes > 0 && size > maxBytes {
		return "", types.ErrDocumentTooLarge
	}

	return strings.TrimPrefix(ext, "."), nil
}
