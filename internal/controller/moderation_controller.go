package controller

import (
	"ai-research-safety-be/internal/dto"
	"ai-research-safety-be/internal/pkg/serverutils"
	"ai-research-safety-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IModerationController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	BatchAnalyze(ctx *fiber.Ctx) error
	QuickCheck(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type moderationController struct {
	service service.IModerationService
}

func NewModerationController(service service.IModerationService) IModerationController {
	return &moderationController{service: service}
}

func (c *moderationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/moderation/v1")
	h.Post("/analyze", c.Analyze)
	h.Post("/batch-analyze", c.BatchAnalyze)
	h.Post("/quick-check", c.QuickCheck)
	h.Get("/categories", c.Categories)
	h.Get("/health", c.Health)
}

func (c *moderationController) Analyze(ctx *fiber.Ctx) error {
	var req dto.ModerationAnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Analyze(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Content analysis completed", res))
}

func (c *moderationController) BatchAnalyze(ctx *fiber.Ctx) error {
	var req dto.BatchAnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if len(req.Items) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "No items provided for batch analysis"))
	}
	if len(req.Items) > 20 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Maximum 20 items per batch"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.BatchAnalyze(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Batch analysis completed", res))
}

func (c *moderationController) QuickCheck(ctx *fiber.Ctx) error {
	var req dto.QuickCheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if req.Text == "" && req.ImageURL == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Either text or image_url must be provided"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.QuickCheck(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Quick safety check completed", res))
}

func (c *moderationController) Categories(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Violation categories", c.service.Categories()))
}

func (c *moderationController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Content moderation service health", fiber.Map{
		"status":  "healthy",
		"service": "content_moderation",
		"capabilities": fiber.Map{
			"image_analysis":   true,
			"text_analysis":    true,
			"ocr_extraction":   true,
			"pii_detection":    true,
			"batch_processing": true,
		},
		"max_batch_size": 20,
	}))
}
