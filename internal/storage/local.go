package storage

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"team-chat/internal/domain/message"
	chat_errors "team-chat/pkg/errors"
)

// LocalStore keeps attachment content on the local filesystem, one directory
// per chat. Stored files get fresh generated names; the original name only
// survives in the attachment record. Content is served back through the
// /api/files endpoint, so PublicURL is the canonical GET path.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, chat_errors.NewStorageError("init", root, err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Store(ctx context.Context, chatID, userID uuid.UUID, files []FileUpload) ([]message.Attachment, error) {
	attachments := make([]message.Attachment, 0, len(files))

	for _, f := range files {
		if f.Size == 0 {
			continue
		}
		if hasParentSegment(f.Name) {
			return attachments, chat_errors.NewStorageError("store", f.Name, chat_errors.ErrInvalidInput)
		}

		dir := filepath.Join(s.root, chatID.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return attachments, chat_errors.NewStorageError("store", f.Name, err)
		}

		stored := uuid.New().String() + filepath.Ext(filepath.Base(f.Name))
		path := filepath.Join(dir, stored)

		if err := writeFile(path, f.Reader); err != nil {
			return attachments, chat_errors.NewStorageError("store", f.Name, err)
		}

		attachments = append(attachments, message.Attachment{
			ID:           uuid.New(),
			StoragePath:  filepath.Join(chatID.String(), stored),
			OriginalName: f.Name,
			ContentType:  f.ContentType,
			SizeBytes:    f.Size,
			PublicURL:    sql.NullString{String: "/api/files/" + chatID.String() + "/" + stored, Valid: true},
			UploadedAt:   time.Now(),
		})
	}

	return attachments, nil
}

func (s *LocalStore) Load(ctx context.Context, chatID uuid.UUID, fileName string) (io.ReadCloser, error) {
	chatDir, err := filepath.Abs(filepath.Join(s.root, chatID.String()))
	if err != nil {
		return nil, chat_errors.ErrNotFound
	}

	path, err := filepath.Abs(filepath.Join(chatDir, fileName))
	if err != nil {
		return nil, chat_errors.ErrNotFound
	}
	if !strings.HasPrefix(path, chatDir+string(filepath.Separator)) {
		return nil, chat_errors.ErrNotFound
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, chat_errors.ErrNotFound
	}
	return file, nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func hasParentSegment(name string) bool {
	cleaned := filepath.ToSlash(name)
	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
