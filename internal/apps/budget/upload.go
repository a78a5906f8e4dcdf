package budget

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/dto"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Upload stores a budget cover image under the upload directory and returns
// the URL it is served from. The content type is sniffed from the bytes; the
// client-supplied name and header are ignored.
func (h *BudgetHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image file is required",
		})
	}
	if fh.Size > int64(h.cfg.MaxUploadBytes) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "image is too large",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image could not be read",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(h.cfg.MaxUploadBytes)+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image could not be read",
		})
	}
	if len(data) > h.cfg.MaxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "image is too large",
		})
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
			Error: true, Message: "only PNG, JPEG, GIF and WebP images are accepted",
		})
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		slog.Error("create upload dir failed", "dir", h.cfg.UploadDir, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store image",
		})
	}

	name := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(h.cfg.UploadDir, name), data, 0o644); err != nil {
		slog.Error("write upload failed", "file", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		ImageURL: c.BaseURL() + "/uploads/" + name,
	})
}
