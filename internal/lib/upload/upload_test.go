package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader — минимальная сигнатура PNG, достаточная для DetectContentType.
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

func newUploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/books", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSaver_SaveFromRequest(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir)
	require.NoError(t, err)

	req := newUploadRequest(t, "bookImage", "cover.png", pngHeader)

	path, err := saver.SaveFromRequest(req, "bookImage")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "bookImage-"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	saved, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, saved)
}

func TestSaver_SaveFromRequest_MissingFileIsOptional(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	req := newUploadRequest(t, "bookImage", "", nil)

	path, err := saver.SaveFromRequest(req, "bookImage")
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestSaver_SaveFromRequest_RejectsNonImage(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	req := newUploadRequest(t, "bookImage", "notes.txt", []byte("plain text, not an image"))

	path, err := saver.SaveFromRequest(req, "bookImage")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, path)
}

func TestSaver_SaveFromRequest_ExtensionFromContentType(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	// Имя файла без расширения, тип определяется по содержимому.
	req := newUploadRequest(t, "profileImage", "avatar", pngHeader)

	path, err := saver.SaveFromRequest(req, "profileImage")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))
}
