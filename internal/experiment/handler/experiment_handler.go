package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	authhandler "github.com/tangimds/EMS/internal/auth/handler"
	apperrors "github.com/tangimds/EMS/internal/errors"
	"github.com/tangimds/EMS/internal/experiment/domain"
	"github.com/tangimds/EMS/internal/experiment/dto"
	"github.com/tangimds/EMS/internal/experiment/service"
)

type ExperimentHandler struct {
	experimentService *service.ExperimentService
}

func NewExperimentHandler(experimentService *service.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experimentService: experimentService}
}

func (h *ExperimentHandler) List(c *fiber.Ctx) error {
	identity := authhandler.CurrentUser(c)

	filter := domain.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	experiments, err := h.experimentService.List(c.Context(), identity.ID, filter)
	if err != nil {
		log.Printf("list experiments error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error while fetching experiments",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"data": dto.NewExperimentOutputs(experiments),
	})
}

func (h *ExperimentHandler) Get(c *fiber.Ctx) error {
	identity := authhandler.CurrentUser(c)

	experiment, err := h.experimentService.Get(c.Context(), identity.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":      false,
				"message": "Experiment not found",
			})
		}
		log.Printf("get experiment error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error while fetching experiment",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"data": dto.NewExperimentOutput(experiment),
	})
}

func (h *ExperimentHandler) Create(c *fiber.Ctx) error {
	identity := authhandler.CurrentUser(c)

	var input dto.CreateExperimentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	experiment, err := h.experimentService.Create(c.Context(), identity.ID, input)
	if err != nil {
		if apperrors.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("create experiment error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error while creating experiment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"message": "Experiment created successfully",
		"data":    dto.NewExperimentOutput(experiment),
	})
}

func (h *ExperimentHandler) Update(c *fiber.Ctx) error {
	identity := authhandler.CurrentUser(c)

	var input dto.UpdateExperimentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	experiment, err := h.experimentService.Update(c.Context(), identity.ID, c.Params("id"), input)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, apperrors.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Experiment not found",
			})
		default:
			log.Printf("update experiment error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server error while updating experiment",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":      true,
		"message": "Experiment updated successfully",
		"data":    dto.NewExperimentOutput(experiment),
	})
}

func (h *ExperimentHandler) Delete(c *fiber.Ctx) error {
	identity := authhandler.CurrentUser(c)

	if err := h.experimentService.Delete(c.Context(), identity.ID, c.Params("id")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Experiment not found",
			})
		}
		log.Printf("delete experiment error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error while deleting experiment",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":      true,
		"message": "Experiment deleted successfully",
	})
}
