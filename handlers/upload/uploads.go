package upload

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/services/storage"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}

type UploadHandler struct {
	store ObjectStore
}

// NewUploadHandler creates the handler. A nil store makes every upload answer 503.
func NewUploadHandler(store ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// CreateUpload handles POST /api/uploads
func (h *UploadHandler) CreateUpload(c *fiber.Ctx) error {
	if h.store == nil {
		return response.ServiceUnavailable(c, "File uploads are not configured")
	}

	kind := c.FormValue("kind")
	fh, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file is required")
	}
	if fh.Size > storage.MaxUploadBytes {
		return response.Error(c, fiber.StatusRequestEntityTooLarge, "File exceeds the 50MB limit", "PAYLOAD_TOO_LARGE")
	}

	key, err := storage.ObjectKey(kind, fh.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKind) {
			return response.BadRequest(c, "kind must be one of: thumbnail, lesson")
		}
		return response.InternalServerError(c, "Failed to prepare upload")
	}

	f, err := fh.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read uploaded file")
	}
	defer f.Close()

	url, err := h.store.Put(c.UserContext(), key, f, storage.ContentType(fh.Filename))
	if err != nil {
		log.Errorf("[UPLOAD] %s: %v", key, err)
		return response.InternalServerError(c, "Failed to store file")
	}

	return response.Created(c, fiber.Map{"url": url, "key": key})
}
