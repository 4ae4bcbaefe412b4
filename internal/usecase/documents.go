package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// ObjectStore is the slice of the object-storage client uploads need.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// DocumentRecorder persists upload metadata.
type DocumentRecorder interface {
	Insert(ctx context.Context, d domain.DocumentRecord) error
}

// DocumentService archives uploaded files. Archival is a side channel of the
// intake flow: it runs detached from the request and its failures are logged,
// never surfaced, so a broken bucket cannot block extraction.
type DocumentService struct {
	store  ObjectStore
	docs   DocumentRecorder
	bucket string
	logger *logger.Logger
}

func NewDocumentService(store ObjectStore, docs DocumentRecorder, bucket string, log *logger.Logger) *DocumentService {
	return &DocumentService{store: store, docs: docs, bucket: bucket, logger: log}
}

const storeTimeout = 30 * time.Second

// StoreAsync uploads the file and records its metadata in the background.
// The caller gets no result and no error.
func (s *DocumentService) StoreAsync(identity domain.Identity, category domain.DocumentCategory, file domain.File) {
	owner := identity.Key()
	key := fmt.Sprintf("documents/%s/%s-%s", owner, uuid.New().String(), file.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := s.store.Upload(ctx, key, file.Data, file.ContentType); err != nil {
			s.logger.Warn("document archive upload failed", "owner", owner, "key", key, "error", err)
			return
		}
		rec := domain.DocumentRecord{
			ID:         uuid.New(),
			UserID:     owner,
			FilePath:   key,
			FileBucket: s.bucket,
			FileType:   file.ContentType,
			Category:   category,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.docs.Insert(ctx, rec); err != nil {
			s.logger.Warn("document metadata insert failed", "owner", owner, "key", key, "error", err)
		}
	}()
}
