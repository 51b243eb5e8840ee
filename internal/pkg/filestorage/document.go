package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/escolar/internal/pkg/apperrors"
)

// DocumentPrefix is the key prefix of every supporting document
const DocumentPrefix = "documentos"

// allowedDocumentTypes maps accepted MIME types to the extension stored
var allowedDocumentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

// Document describes a stored supporting document
type Document struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// DocumentUploader validates uploads and hands them to a DocumentStorage
type DocumentUploader struct {
	storage  DocumentStorage
	maxBytes int64
}

// NewDocumentUploader creates a DocumentUploader accepting files up to maxBytes
func NewDocumentUploader(storage DocumentStorage, maxBytes int64) *DocumentUploader {
	return &DocumentUploader{storage: storage, maxBytes: maxBytes}
}

// MaxBytes returns the upload size limit
func (u *DocumentUploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload reads r, checks its size and sniffed content type and stores it under a fresh key.
// The declared name and content type of the upload are not trusted.
func (u *DocumentUploader) Upload(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("the uploaded file is empty")
	}
	if int64(len(data)) > u.maxBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("the uploaded file exceeds %d bytes", u.maxBytes))
	}

	mtype := mimetype.Detect(data)
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	ext, ok := allowedDocumentTypes[contentType]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported document type %s, expected PDF, PNG or JPEG", contentType))
	}

	key := DocumentPrefix + "/" + uuid.NewString() + ext
	url, err := u.storage.Save(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, err
	}

	return &Document{Key: key, URL: url, ContentType: contentType, Size: int64(len(data))}, nil
}
