package handler

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/tangimds/EMS/internal/errors"
	"github.com/tangimds/EMS/internal/file/dto"
	"github.com/tangimds/EMS/internal/file/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) Upload(c *fiber.Ctx) error {
	var input dto.UploadInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "invalid input",
		})
	}

	if input.Folder == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "No folder specified",
		})
	}
	if len(input.Files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "No files uploaded",
		})
	}

	keys, err := h.fileService.Upload(c.Context(), input.Folder, input.Files)
	if err != nil {
		if apperrors.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": err.Error(),
			})
		}
		log.Printf("file upload error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "SERVER_ERROR",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"data": keys,
	})
}

func (h *FileHandler) Download(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "Missing key",
		})
	}

	result, err := h.fileService.Download(c.Context(), key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":      false,
				"message": "File not found",
			})
		}
		log.Printf("file download error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "SERVER_ERROR",
		})
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", result.Filename))
	if result.ETag != "" {
		c.Set(fiber.HeaderETag, result.ETag)
	}

	return c.SendStream(result.Body, int(result.ContentLength))
}
