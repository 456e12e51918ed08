package controller

import (
	"errors"

	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/pkg/serverutils"
	"doc-checker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITeamController interface {
	RegisterRoutes(r fiber.Router)
	ListMembers(ctx *fiber.Ctx) error
	AddMember(ctx *fiber.Ctx) error
	RemoveMember(ctx *fiber.Ctx) error
}

type teamController struct {
	service service.ITeamService
}

func NewTeamController(service service.ITeamService) ITeamController {
	return &teamController{service: service}
}

func (c *teamController) RegisterRoutes(r fiber.Router) {
	protected := r.Group("/team", serverutils.JwtMiddleware)
	protected.Get("/members", c.ListMembers)
	protected.Post("/members", c.AddMember)
	protected.Delete("/members/:id", c.RemoveMember)
}

func (c *teamController) ListMembers(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	members, err := c.service.ListMembers(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Team members retrieved", members))
}

func (c *teamController) AddMember(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AddTeamMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.AddMember(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoTeam) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Team member added", res))
}

func (c *teamController) RemoveMember(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	memberId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid member id"))
	}

	if err := c.service.RemoveMember(ctx.Context(), userId, memberId); err != nil {
		if errors.Is(err, service.ErrNoTeam) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Team member removed", nil))
}
