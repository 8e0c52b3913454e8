// AngelaMos | 2026
// s3_test.go

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-admin/internal/config"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
	})
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if r.Method == http.MethodDelete && status == http.StatusOK {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func newTestStore(t *testing.T, publicURL string) (*S3Store, *fakeS3, string) {
	t.Helper()
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), config.StorageConfig{
		Bucket:          "catalog",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		PublicURL:       publicURL,
		KeyPrefix:       "/products/",
	})
	require.NoError(t, err)
	return store, fake, srv.URL
}

func TestS3UploadAndDelete(t *testing.T) {
	store, fake, endpoint := newTestStore(t, "")
	ctx := context.Background()

	res, err := store.Upload(ctx, pngHeader, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "products/"))
	assert.True(t, strings.HasSuffix(res.Filename, ".png"))
	assert.Equal(t, endpoint+"/catalog/"+res.Key, res.URL)
	assert.Equal(t, res.Key, store.KeyFromURL(res.URL))

	require.NoError(t, store.Delete(ctx, res.Key))

	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodPut, fake.requests[0].Method)
	assert.Equal(t, "/catalog/"+res.Key, fake.requests[0].Path)
	assert.Equal(t, "image/png", fake.requests[0].ContentType)
	assert.Equal(t, http.MethodDelete, fake.requests[1].Method)
}

func TestS3UploadFailure(t *testing.T) {
	store, fake, _ := newTestStore(t, "")
	fake.status = http.StatusForbidden

	_, err := store.Upload(context.Background(), pngHeader, "image/png")
	assert.ErrorIs(t, err, core.ErrStorageFailed)
}

func TestS3Ping(t *testing.T) {
	store, fake, _ := newTestStore(t, "")

	require.NoError(t, store.Ping(context.Background()))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodHead, fake.requests[0].Method)
	assert.Equal(t, "/catalog", fake.requests[0].Path)
}

func TestS3KeyFromURL(t *testing.T) {
	store, _, _ := newTestStore(t, "https://cdn.example.com/")

	assert.Equal(t, "products/a.png", store.KeyFromURL("https://cdn.example.com/products/a.png"))
	assert.Equal(t, "products/b.png", store.KeyFromURL("https://other.example.com/catalog/products/b.png"))
	assert.Equal(t, "", store.KeyFromURL(""))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t,
		"https://catalog.s3.eu-west-1.amazonaws.com",
		publicBaseURL(config.StorageConfig{Bucket: "catalog", Region: "eu-west-1"}),
	)
	assert.Equal(t,
		"http://minio:9000/catalog",
		publicBaseURL(config.StorageConfig{Bucket: "catalog", Endpoint: "http://minio:9000/"}),
	)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}
