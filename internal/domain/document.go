package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentCategory tags an uploaded file with its role in the intake flow.
type DocumentCategory string

const (
	DocumentIDFront     DocumentCategory = "ID_FRONT"
	DocumentIDBack      DocumentCategory = "ID_BACK"
	DocumentCertificate DocumentCategory = "CERTIFICATE"
	DocumentOther       DocumentCategory = "OTHER"
)

// File is an uploaded image passed through intake and handed to the
// extraction collaborator.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentRecord is the stored metadata for an uploaded file.
type DocumentRecord struct {
	ID         uuid.UUID        `json:"id"`
	UserID     string           `json:"user_id"`
	FilePath   string           `json:"file_path"`
	FileBucket string           `json:"file_bucket"`
	FileType   string           `json:"file_type"`
	Category   DocumentCategory `json:"category"`
	CreatedAt  time.Time        `json:"created_at"`
}
