package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	chat_errors "team-chat/pkg/errors"
)

func newLocalFixture(t *testing.T) (*LocalStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	return store, root
}

func upload(name, content string) FileUpload {
	return FileUpload{
		Name:        name,
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	req := require.New(t)
	store, _ := newLocalFixture(t)
	chatID := uuid.New()
	userID := uuid.New()

	attachments, err := store.Store(context.Background(), chatID, userID, []FileUpload{upload("notes.txt", "hello attachments")})
	req.NoError(err)
	req.Len(attachments, 1)

	a := attachments[0]
	req.Equal("notes.txt", a.OriginalName)
	req.Equal(int64(len("hello attachments")), a.SizeBytes)
	req.True(a.PublicURL.Valid)
	req.True(strings.HasPrefix(a.PublicURL.String, "/api/files/"+chatID.String()+"/"))
	req.NotContains(a.PublicURL.String, "?")
	req.True(strings.HasSuffix(a.StoragePath, ".txt"))
	req.NotContains(a.StoragePath, "notes")

	stored := filepath.Base(a.StoragePath)
	file, err := store.Load(context.Background(), chatID, stored)
	req.NoError(err)
	defer file.Close()

	data, err := io.ReadAll(file)
	req.NoError(err)
	req.Equal("hello attachments", string(data))
}

func TestLocalStoreRejectsParentSegments(t *testing.T) {
	req := require.New(t)
	store, root := newLocalFixture(t)
	chatID := uuid.New()

	_, err := store.Store(context.Background(), chatID, uuid.New(), []FileUpload{upload("../escape.txt", "nope")})
	req.Error(err)
	req.True(chat_errors.IsStorageError(err))

	// Nothing may have been written for the rejected name.
	entries, readErr := os.ReadDir(filepath.Join(root, chatID.String()))
	if readErr == nil {
		req.Empty(entries)
	}
}

func TestLocalStoreStopsBatchButKeepsEarlierFiles(t *testing.T) {
	req := require.New(t)
	store, root := newLocalFixture(t)
	chatID := uuid.New()

	attachments, err := store.Store(context.Background(), chatID, uuid.New(), []FileUpload{
		upload("ok.txt", "fine"),
		upload("nested/../../bad.txt", "nope"),
		upload("never.txt", "unreached"),
	})
	req.True(chat_errors.IsStorageError(err))
	req.Len(attachments, 1)

	entries, readErr := os.ReadDir(filepath.Join(root, chatID.String()))
	req.NoError(readErr)
	req.Len(entries, 1)
}

func TestLocalStoreSkipsEmptyFiles(t *testing.T) {
	req := require.New(t)
	store, _ := newLocalFixture(t)

	attachments, err := store.Store(context.Background(), uuid.New(), uuid.New(), []FileUpload{
		upload("empty.txt", ""),
		upload("full.txt", "content"),
	})
	req.NoError(err)
	req.Len(attachments, 1)
	req.Equal("full.txt", attachments[0].OriginalName)
}

func TestLocalStoreLoadEscapeFails(t *testing.T) {
	req := require.New(t)
	store, root := newLocalFixture(t)
	chatID := uuid.New()

	// A real file outside the chat directory must stay unreachable.
	req.NoError(os.WriteFile(filepath.Join(root, "secret.txt"), []byte("secret"), 0o600))

	_, err := store.Load(context.Background(), chatID, "../secret.txt")
	req.ErrorIs(err, chat_errors.ErrNotFound)

	_, err = store.Load(context.Background(), chatID, "missing.txt")
	req.ErrorIs(err, chat_errors.ErrNotFound)
}
