package controller

import (
	"context"
	"errors"

	"doc-checker-be/internal/dto"
	"doc-checker-be/internal/pkg/serverutils"
	"doc-checker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConflictController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
	Reopen(ctx *fiber.Ctx) error
}

type conflictController struct {
	service service.IConflictService
}

func NewConflictController(service service.IConflictService) IConflictController {
	return &conflictController{service: service}
}

func (c *conflictController) RegisterRoutes(r fiber.Router) {
	protected := r.Group("/conflicts", serverutils.JwtMiddleware)
	protected.Put("/:id/resolve", c.Resolve)
	protected.Put("/:id/reopen", c.Reopen)
}

func (c *conflictController) Resolve(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.service.Resolve, "Conflict resolved")
}

func (c *conflictController) Reopen(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.service.Reopen, "Conflict reopened")
}

func (c *conflictController) transition(
	ctx *fiber.Ctx,
	op func(c context.Context, userId uuid.UUID, conflictId uuid.UUID) (*dto.ResolveConflictResponse, error),
	message string,
) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	conflictId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid conflict id"))
	}

	res, err := op(ctx.Context(), userId, conflictId)
	if err != nil {
		if errors.Is(err, service.ErrConflictNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}
