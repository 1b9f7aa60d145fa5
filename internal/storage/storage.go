package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"team-chat/internal/domain/message"
)

// FileUpload is one raw file payload from a multipart send request.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachmentStore persists uploaded attachment content and returns the
// metadata records to link to a message. Exactly one implementation is active
// per deployment, chosen from configuration at startup.
//
// Store writes files sequentially with no cross-file atomicity: a failure
// mid-batch returns a StorageError and leaves the files written so far in
// place. Callers must treat such an error as "orphaned content may exist",
// not as a cue to retry.
type AttachmentStore interface {
	Store(ctx context.Context, chatID, userID uuid.UUID, files []FileUpload) ([]message.Attachment, error)
	// Load opens previously stored content for proxying. Backends that issue
	// direct public URLs return ErrUnsupported.
	Load(ctx context.Context, chatID uuid.UUID, fileName string) (io.ReadCloser, error)
}
