package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	owner := uuid.MustParse("7b0c3b43-4a4e-4b5c-9d1e-6b8a0c1d2e3f")
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, "documents/"+owner.String()+"/1700000000000-gas_safety.pdf",
		ObjectKey("documents", owner, "gas safety.pdf", now))
	assert.Equal(t, "documents/"+owner.String()+"/1700000000000-passwd",
		ObjectKey("documents", owner, "../../etc/passwd", now))
	assert.Equal(t, "uploads/"+owner.String()+"/1700000000000-file",
		ObjectKey("uploads", owner, "..", now))
}

func TestValidKey(t *testing.T) {
	assert.True(t, validKey("a/b/c.pdf"))
	assert.False(t, validKey(""))
	assert.False(t, validKey("/abs"))
	assert.False(t, validKey("a/../b"))
	assert.False(t, validKey("a//b"))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/files")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "documents/u/1-a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/documents/u/1-a.txt", url)

	b, err := os.ReadFile(filepath.Join(dir, "documents", "u", "1-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, store.Delete(context.Background(), "documents/u/1-a.txt"))
	require.NoError(t, store.Delete(context.Background(), "documents/u/1-a.txt"))

	_, err = store.Put(context.Background(), "../escape", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestHTTPStorePutAndDelete(t *testing.T) {
	objects := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(b)
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if _, ok := objects[r.URL.Path]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(objects, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "https://cdn.test", "tok")
	url, err := store.Put(context.Background(), "uploads/u/1-a.txt", strings.NewReader("data"), 4, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/uploads/u/1-a.txt", url)
	assert.Equal(t, "data", objects["/uploads/u/1-a.txt"])

	require.NoError(t, store.Delete(context.Background(), "uploads/u/1-a.txt"))
	assert.Empty(t, objects)
	require.NoError(t, store.Delete(context.Background(), "uploads/u/1-a.txt"))
}
