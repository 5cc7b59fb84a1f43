package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	tests := []struct {
		filename string
		allowed  []string
		want     string
		ok       bool
	}{
		{"avatar.PNG", AvatarExtensions, ".png", true},
		{"photo.jpeg", AvatarExtensions, ".jpeg", true},
		{"clip.mp4", AvatarExtensions, "", false},
		{"clip.mp4", MediaExtensions, ".mp4", true},
		{"noext", MediaExtensions, "", false},
		{"archive.tar.gz", MediaExtensions, "", false},
	}
	for _, tt := range tests {
		got, ok := Ext(tt.filename, tt.allowed)
		assert.Equal(t, tt.want, got, tt.filename)
		assert.Equal(t, tt.ok, ok, tt.filename)
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "avatars/maria.gif", AvatarKey("maria", ".gif"))

	a, b := MediaKey(4, ".pdf"), MediaKey(4, ".pdf")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "club_media/clube4_"))
	assert.True(t, strings.HasSuffix(a, ".pdf"))
	assert.NotContains(t, strings.TrimPrefix(a, "club_media/clube4_"), "-")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/webp", ContentTypeFor(".webp", ""))
	assert.Equal(t, "video/quicktime", ContentTypeFor(".mov", "application/octet-stream"))
	assert.Equal(t, "image/x-custom", ContentTypeFor(".png", "image/x-custom"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor(".bin", ""))
}

func TestLocalUploader(t *testing.T) {
	root := t.TempDir()
	up, err := NewLocalUploader(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	res, err := up.Upload(ctx, "avatars/joao.png", "image/png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/joao.png", res.Key)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/joao.png", res.Location)
	assert.Equal(t, "image/png", res.ContentType)
	assert.NotEmpty(t, res.ETag)

	data, err := os.ReadFile(filepath.Join(root, "avatars", "joao.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	// overwrite keeps a single file
	_, err = up.Upload(ctx, "avatars/joao.png", "image/png", strings.NewReader("v2"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(root, "avatars"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, up.Delete(ctx, "avatars/joao.png"))
	require.NoError(t, up.Delete(ctx, "avatars/joao.png"), "deleting a missing blob is not an error")
	_, err = os.Stat(filepath.Join(root, "avatars", "joao.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalUploader_RejectsEscapingKeys(t *testing.T) {
	up, err := NewLocalUploader(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "/etc/passwd", "a/../../b"} {
		_, err := up.Upload(context.Background(), key, "text/plain", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "avatars/ana.png", want: "avatars/ana.png"},
		{key: "club_media//x.pdf", want: "club_media/x.pdf"},
		{key: "a/./b/../c.gif", want: "a/c.gif"},
		{key: "", wantErr: true},
		{key: "/abs", wantErr: true},
		{key: "..", wantErr: true},
		{key: "a/../../b", wantErr: true},
		{key: `avatars\ana.png`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.key)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKey, tt.key)
			continue
		}
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewLocalUploader_RequiresRoot(t *testing.T) {
	_, err := NewLocalUploader("", "http://localhost")
	assert.Error(t, err)
}
