package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atelierhq/atelier-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "secret456",
	})
	client.baseURL = server.URL
	client.httpClient = server.Client()
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return client
}

func TestUpload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "data:image/png;base64,AAAA", r.Form.Get("file"))
		assert.Equal(t, "atelier/river-house/projects", r.Form.Get("folder"))
		assert.Equal(t, "key123", r.Form.Get("api_key"))
		assert.Equal(t, "c_limit,w_2000,h_2000,q_85,f_auto", r.Form.Get("transformation"))

		// Signature covers the sorted signed params plus the secret.
		toSign := "folder=atelier/river-house/projects&timestamp=1700000000" +
			"&transformation=c_limit,w_2000,h_2000,q_85,f_auto" + "secret456"
		sum := sha1.Sum([]byte(toSign))
		assert.Equal(t, hex.EncodeToString(sum[:]), r.Form.Get("signature"))

		_ = json.NewEncoder(w).Encode(UploadResult{
			PublicID:  "atelier/river-house/projects/abc123",
			SecureURL: "https://res.example.com/demo/image/upload/v1/atelier/river-house/projects/abc123.jpg",
			Width:     1600,
			Height:    900,
			Bytes:     204800,
			Format:    "jpg",
		})
	})

	result, err := client.Upload(context.Background(), "data:image/png;base64,AAAA", "atelier/river-house/projects")
	require.NoError(t, err)
	assert.Equal(t, "atelier/river-house/projects/abc123", result.PublicID)
	assert.Equal(t, 1600, result.Width)
	assert.Equal(t, int64(204800), result.Bytes)
}

func TestUpload_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	})

	_, err := client.Upload(context.Background(), "not-an-image", "atelier/x/projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestDestroy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "atelier/river-house/projects/abc123", r.Form.Get("public_id"))
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	ok, err := client.Destroy(context.Background(), "atelier/river-house/projects/abc123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDestroy_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"not found"}`))
	})

	ok, err := client.Destroy(context.Background(), "atelier/gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient(config.MediaConfig{}).Configured())
	assert.False(t, NewClient(config.MediaConfig{CloudName: "demo"}).Configured())
	assert.True(t, NewClient(config.MediaConfig{
		CloudName: "demo", APIKey: "k", APISecret: "s",
	}).Configured())
}

func TestFolder(t *testing.T) {
	assert.Equal(t, "atelier/river-house/projects", Folder("river-house", "projects"))
	assert.Equal(t, "atelier/super-admin/general", Folder("", "general"))
}

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned url",
			url:  "https://res.example.com/demo/image/upload/v1712345678/atelier/river-house/projects/abc123.jpg",
			want: "atelier/river-house/projects/abc123",
		},
		{
			name: "transformation chain",
			url:  "https://res.example.com/demo/image/upload/c_limit,w_2000/v17/atelier/x/blog/img.webp",
			want: "atelier/x/blog/img",
		},
		{
			name: "no version",
			url:  "https://res.example.com/demo/image/upload/atelier/x/general/pic.png",
			want: "atelier/x/general/pic",
		},
		{
			name: "no extension",
			url:  "https://res.example.com/demo/image/upload/v5/atelier/x/gallery/raw",
			want: "atelier/x/gallery/raw",
		},
		{
			name: "not an upload url",
			url:  "https://example.com/some/other/path.jpg",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPublicID(tt.url))
		})
	}
}
