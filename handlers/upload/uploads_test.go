package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	fail    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

func multipartBody(t *testing.T, kind, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if kind != "" {
		require.NoError(t, w.WriteField("kind", kind))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func post(t *testing.T, h *UploadHandler, body io.Reader, contentType string) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Post("/uploads", h.CreateUpload)

	req := httptest.NewRequest("POST", "/uploads", body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCreateUploadStoresObject(t *testing.T) {
	store := newMemoryStore()
	body, ct := multipartBody(t, "thumbnail", "Cover.PNG", "png-bytes")

	status, out := post(t, NewUploadHandler(store), body, ct)
	require.Equal(t, fiber.StatusCreated, status, out)

	data := out["data"].(map[string]interface{})
	key := data["key"].(string)
	assert.True(t, strings.HasPrefix(key, "thumbnails/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "https://cdn.example.com/"+key, data["url"])
	assert.Equal(t, "png-bytes", string(store.objects[key]))
	assert.Equal(t, "image/png", store.types[key])
}

func TestCreateUploadRejectsBadInput(t *testing.T) {
	store := newMemoryStore()
	h := NewUploadHandler(store)

	body, ct := multipartBody(t, "avatar", "a.png", "x")
	status, _ := post(t, h, body, ct)
	assert.Equal(t, fiber.StatusBadRequest, status)

	body, ct = multipartBody(t, "lesson", "", "")
	status, _ = post(t, h, body, ct)
	assert.Equal(t, fiber.StatusBadRequest, status)

	assert.Empty(t, store.objects)
}

func TestCreateUploadStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.fail = true
	body, ct := multipartBody(t, "lesson", "notes.pdf", "%PDF")

	status, _ := post(t, NewUploadHandler(store), body, ct)
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestCreateUploadWithoutStore(t *testing.T) {
	status, out := post(t, NewUploadHandler(nil), strings.NewReader(""), "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, false, out["success"])
}
