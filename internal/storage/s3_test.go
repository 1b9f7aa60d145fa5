package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	chat_errors "team-chat/pkg/errors"
)

// fakeBucket accepts path-style PutObject requests, recording keys in order.
// Requests after failAfter succeed no more.
type fakeBucket struct {
	mu        sync.Mutex
	keys      []string
	failAfter int
}

func (b *fakeBucket) handler(bucket string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if r.Method != http.MethodPut {
			http.Error(w, "unexpected method", http.StatusBadRequest)
			return
		}
		if b.failAfter > 0 && len(b.keys) >= b.failAfter {
			http.Error(w, "access denied", http.StatusBadRequest)
			return
		}
		b.keys = append(b.keys, strings.TrimPrefix(r.URL.Path, "/"+bucket+"/"))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}
}

func (b *fakeBucket) storedKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.keys...)
}

func newS3Fixture(t *testing.T, bucket *fakeBucket) *S3Store {
	t.Helper()
	srv := httptest.NewServer(bucket.handler("attachments"))
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Config{
		Region:    "eu-west-1",
		Bucket:    "attachments",
		AccessKey: "test-access",
		SecretKey: "test-secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)
	return store
}

func TestNewS3StoreRequiresRegionAndBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)
}

func TestS3StoreLoadUnsupported(t *testing.T) {
	req := require.New(t)
	store, err := NewS3Store(context.Background(), S3Config{Region: "eu-west-1", Bucket: "attachments"})
	req.NoError(err)

	_, err = store.Load(context.Background(), uuid.New(), "anything.png")
	req.ErrorIs(err, chat_errors.ErrUnsupported)
}

func TestS3StoreStoreKeysAndSkipsEmpty(t *testing.T) {
	req := require.New(t)
	bucket := &fakeBucket{}
	store := newS3Fixture(t, bucket)
	chatID := uuid.New()
	userID := uuid.New()

	attachments, err := store.Store(context.Background(), chatID, userID, []FileUpload{
		upload("photo.png", "fake image bytes"),
		upload("empty.bin", ""),
	})
	req.NoError(err)
	req.Len(attachments, 1)

	a := attachments[0]
	prefix := "chat/" + chatID.String() + "/" + userID.String() + "/"
	req.True(strings.HasPrefix(a.StoragePath, prefix))
	req.True(strings.HasSuffix(a.StoragePath, ".png"))
	req.NotContains(a.StoragePath, "photo")
	req.Equal("photo.png", a.OriginalName)
	req.Equal(int64(len("fake image bytes")), a.SizeBytes)
	req.True(a.PublicURL.Valid)
	req.NotEmpty(a.PublicURL.String)

	// The object key on the wire is the stored StoragePath.
	req.Equal([]string{a.StoragePath}, bucket.storedKeys())
}

func TestS3StoreStoreAbortsBatchKeepsEarlierUploads(t *testing.T) {
	req := require.New(t)
	bucket := &fakeBucket{failAfter: 1}
	store := newS3Fixture(t, bucket)
	chatID := uuid.New()
	userID := uuid.New()

	attachments, err := store.Store(context.Background(), chatID, userID, []FileUpload{
		upload("first.txt", "one"),
		upload("second.txt", "two"),
		upload("never.txt", "three"),
	})
	req.True(chat_errors.IsStorageError(err))
	req.Len(attachments, 1)
	req.Equal("first.txt", attachments[0].OriginalName)
	req.Len(bucket.storedKeys(), 1)
}

func TestS3StoreObjectURL(t *testing.T) {
	req := require.New(t)

	store, err := NewS3Store(context.Background(), S3Config{Region: "eu-west-1", Bucket: "attachments"})
	req.NoError(err)
	req.Equal("https://attachments.s3.eu-west-1.amazonaws.com/chat/a/b", store.objectURL("chat/a/b"))

	withBase, err := NewS3Store(context.Background(), S3Config{
		Region:     "eu-west-1",
		Bucket:     "attachments",
		PublicBase: "https://cdn.example.com",
	})
	req.NoError(err)
	url := withBase.objectURL("chat/a/b")
	req.True(strings.HasPrefix(url, "https://cdn.example.com/"))
}
