package face

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verident/pkg/sentinel"
)

func TestHTTPProviderDetectAndEncode(t *testing.T) {
	ctx := context.Background()

	t.Run("embeddings in detection order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/encodings", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, []byte("image-bytes"), body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
		}))
		defer srv.Close()

		provider := NewHTTPProvider(srv.URL, srv.Client())
		embeddings, err := provider.DetectAndEncode(ctx, []byte("image-bytes"))
		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.Equal(t, Embedding{0.1, 0.2}, embeddings[0])
	})

	t.Run("no faces is an empty slice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embeddings":[]}`))
		}))
		defer srv.Close()

		provider := NewHTTPProvider(srv.URL, srv.Client())
		embeddings, err := provider.DetectAndEncode(ctx, []byte("image-bytes"))
		require.NoError(t, err)
		assert.Empty(t, embeddings)
	})

	t.Run("payload rejection surfaces decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		provider := NewHTTPProvider(srv.URL, srv.Client())
		_, err := provider.DetectAndEncode(ctx, []byte("not an image"))
		assert.ErrorIs(t, err, sentinel.ErrDecode)
	})

	t.Run("5xx surfaces unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		provider := NewHTTPProvider(srv.URL, srv.Client())
		_, err := provider.DetectAndEncode(ctx, []byte("image-bytes"))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("timeout keeps the deadline in the chain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			// Drain the body so the server can observe the client disconnect
			// and cancel the request context; otherwise Close deadlocks.
			_, _ = io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer srv.Close()

		provider := NewHTTPProvider(srv.URL, srv.Client())
		timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := provider.DetectAndEncode(timeoutCtx, []byte("image-bytes"))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("transport failure surfaces unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		provider := NewHTTPProvider(srv.URL, nil)
		_, err := provider.DetectAndEncode(ctx, []byte("image-bytes"))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}
