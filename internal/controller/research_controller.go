package controller

import (
	"ai-research-safety-be/internal/dto"
	"ai-research-safety-be/internal/pkg/serverutils"
	"ai-research-safety-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type researchController struct {
	service service.IResearchService
}

func NewResearchController(service service.IResearchService) IResearchController {
	return &researchController{service: service}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research/v1")
	h.Post("/query", c.Query)
	h.Get("/health", c.Health)
}

func (c *researchController) Query(ctx *fiber.Ctx) error {
	var req dto.ResearchQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Query(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Research query completed", res))
}

func (c *researchController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Research service health", fiber.Map{
		"status":  "healthy",
		"service": "research",
		"features": fiber.Map{
			"llm_input_validation":       true,
			"prompt_injection_detection": true,
			"contextual_moderation":      true,
			"advanced_sanitization":      true,
			"multi_step_reasoning":       true,
			"automatic_citation":         true,
		},
	}))
}
