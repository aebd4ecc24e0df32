package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStreamsToTempFile(t *testing.T) {
	payload := strings.Repeat("abc123", 10000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "https://music.163.com/", r.Header.Get("Referer"))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir, "test-agent", "https://music.163.com/")

	path, err := d.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.True(t, strings.HasSuffix(path, ".mp3"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestFetchExtensionFromContentType(t *testing.T) {
	cases := map[string]string{
		"audio/mp4":                ".m4a",
		"audio/x-m4a":              ".m4a",
		"audio/flac":               ".flac",
		"audio/mpeg":               ".mp3",
		"application/octet-stream": ".mp3",
		"":                         ".mp3",
	}
	for contentType, want := range cases {
		assert.Equal(t, want, extensionForContentType(contentType), "content type %q", contentType)
	}
}

func TestFetchRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir, "test-agent", "")

	_, err := d.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assertDirEmpty(t, dir)
}

func TestFetchNetworkErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关闭，连接必然失败

	dir := t.TempDir()
	d := NewDownloader(dir, "test-agent", "")

	_, err := d.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assertDirEmpty(t, dir)
}

func TestFetchCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	d := NewDownloader(dir, "test-agent", "")

	_, err := d.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assertDirEmpty(t, dir)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		t.Errorf("orphan file left behind: %s", filepath.Join(dir, e.Name()))
	}
}
