package controller

import (
	"errors"

	"alvely-be/internal/dto"
	"alvely-be/internal/pkg/serverutils"
	"alvely-be/internal/service"
	"alvely-be/pkg/retrieval/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SubmitQuery(ctx *fiber.Ctx) error
	LoadMore(ctx *fiber.Ctx) error
	UploadAttachment(ctx *fiber.Ctx) error
	UploadPDFPages(ctx *fiber.Ctx) error
	ChangeModel(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/session", c.CreateSession)
	h.Post("/session/:id/query", c.SubmitQuery)
	h.Post("/session/:id/more", c.LoadMore)
	h.Post("/session/:id/attachment", c.UploadAttachment)
	h.Post("/session/:id/attachment/pdf", c.UploadPDFPages)
	h.Put("/session/:id/model", c.ChangeModel)
	h.Post("/session/:id/reset", c.ResetSession)
	h.Get("/session/:id/history", c.GetHistory)
	h.Delete("/session/:id", c.DeleteSession)
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	// Body is optional; an empty body falls back to the default model
	var req dto.CreateSessionRequest
	_ = ctx.BodyParser(&req)

	// 2. Delegate to service
	res, err := c.assistantService.CreateSession(ctx.Context(), userId, req.ModelId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) SubmitQuery(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.SubmitQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Delegate to service
	res, err := c.assistantService.SubmitQuery(ctx.Context(), userId, id, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit query", res))
}

func (c *assistantController) LoadMore(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.LoadMoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Delegate to service
	res, err := c.assistantService.LoadMore(ctx.Context(), userId, id, req.Mode)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load more results", res))
}

func (c *assistantController) UploadAttachment(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UploadAttachmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Delegate to service
	res, err := c.assistantService.UploadAttachment(ctx.Context(), userId, id, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload attachment", res))
}

func (c *assistantController) UploadPDFPages(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UploadPDFPagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Delegate to service
	res, err := c.assistantService.UploadPDFPages(ctx.Context(), userId, id, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload document pages", res))
}

func (c *assistantController) ChangeModel(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.ChangeModelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	// 2. Delegate to service
	if err := c.assistantService.ChangeModel(ctx.Context(), userId, id, req.ModelId); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success change model", nil))
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Delegate to service
	if err := c.assistantService.ResetSession(ctx.Context(), userId, id); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", nil))
}

func (c *assistantController) GetHistory(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Delegate to service
	res, err := c.assistantService.GetHistory(ctx.Context(), userId, id)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session history", res))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	// 1. Resolve user from token
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	// 2. Delegate to service
	if err := c.assistantService.DeleteSession(ctx.Context(), userId, id); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

// mapServiceError translates domain errors into HTTP status codes so the
// error handler middleware renders the right envelope.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRunInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoQueryYet):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrExpansionFailed),
		errors.Is(err, pipeline.ErrSearchFailed),
		errors.Is(err, pipeline.ErrSynthesisFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return err
	}
}
