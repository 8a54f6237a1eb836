package controller

import (
	"heartlink-be/internal/dto"
	"heartlink-be/internal/pkg/serverutils"
	"heartlink-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConnectionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	SendRequest(ctx *fiber.Ctx) error
	GetPendingRequests(ctx *fiber.Ctx) error
	AcceptRequest(ctx *fiber.Ctx) error
	GetConnections(ctx *fiber.Ctx) error
}

type connectionController struct {
	service service.IConnectionService
}

func NewConnectionController(service service.IConnectionService) IConnectionController {
	return &connectionController{service: service}
}

func (c *connectionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/connections")
	h.Use(auth)
	h.Get("/", c.GetConnections)
	h.Post("/request", c.SendRequest)
	h.Get("/pending", c.GetPendingRequests)
	h.Post("/accept/:requestId", c.AcceptRequest)
}

func (c *connectionController) SendRequest(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendRequest(ctx.Context(), userId, req.ReceiverId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Request sent", res))
}

func (c *connectionController) GetPendingRequests(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.PendingRequests(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending requests", res))
}

func (c *connectionController) AcceptRequest(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	requestId, err := uuid.Parse(ctx.Params("requestId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request id"))
	}

	if err := c.service.AcceptRequest(ctx.Context(), userId, requestId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Request accepted", nil))
}

func (c *connectionController) GetConnections(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Connections(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Connections", res))
}
