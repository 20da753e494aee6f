package persistent

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/andreyxaxa/Event-Attestor/pkg/cidutil"
	"github.com/andreyxaxa/Event-Attestor/pkg/s3client"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	cid     string
	status  int
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if b.status != 0 {
		w.WriteHeader(b.status)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/pins/")

	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
	case http.MethodHead:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if b.cid != "" {
			w.Header().Set("x-amz-meta-cid", b.cid)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestObjectStore(t *testing.T, bucket *fakeBucket) *IPFSObjectStore {
	t.Helper()

	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		Credentials:      aws.AnonymousCredentials{},
		RetryMaxAttempts: 1,
	})

	return NewIPFSObjectStore(&s3client.S3Client{Client: client}, "pins", "https://gw.example")
}

func TestIPFSObjectStore_ProviderCID(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, cid: testCID}
	store := newTestObjectStore(t, bucket)

	ref, err := store.Store(context.Background(), []byte("image"), "a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, testCID, ref.ContentID)
	assert.Equal(t, "https://gw.example/ipfs/"+testCID, ref.RetrievalURL)

	local, err := cidutil.CIDv1RawSHA256([]byte("image"))
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), bucket.objects[local.String()])
}

func TestIPFSObjectStore_LocalCIDFallback(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := newTestObjectStore(t, bucket)

	ref, err := store.Store(context.Background(), []byte("image"), "a.png", "image/png")
	require.NoError(t, err)

	local, err := cidutil.CIDv1RawSHA256([]byte("image"))
	require.NoError(t, err)
	assert.Equal(t, local.String(), ref.ContentID)
}

func TestIPFSObjectStore_InvalidProviderCID(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, cid: "definitely-not-a-cid"}
	store := newTestObjectStore(t, bucket)

	_, err := store.Store(context.Background(), []byte("image"), "a.png", "image/png")
	assert.ErrorIs(t, err, errs.ErrStorageRejected)
}

func TestIPFSObjectStore_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusServiceUnavailable, want: errs.ErrStorageUnavailable},
		{status: http.StatusForbidden, want: errs.ErrStorageUnavailable},
		{status: http.StatusBadRequest, want: errs.ErrStorageRejected},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			store := newTestObjectStore(t, &fakeBucket{objects: map[string][]byte{}, status: tt.status})

			_, err := store.Store(context.Background(), []byte("image"), "a.png", "image/png")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStorageStatusError(t *testing.T) {
	assert.ErrorIs(t, storageStatusError(http.StatusInternalServerError), errs.ErrStorageUnavailable)
	assert.ErrorIs(t, storageStatusError(http.StatusRequestTimeout), errs.ErrStorageUnavailable)
	assert.ErrorIs(t, storageStatusError(http.StatusRequestEntityTooLarge), errs.ErrStorageRejected)
	assert.ErrorIs(t, storageStatusError(http.StatusUnprocessableEntity), errs.ErrStorageRejected)
}
