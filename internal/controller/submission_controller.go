package controller

import (
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/pkg/serverutils"
	"warehouse-scan-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ISubmissionController interface {
	RegisterRoutes(r fiber.Router)
	SubmitIncoming(ctx *fiber.Ctx) error
	SubmitOutgoing(ctx *fiber.Ctx) error
	ListSubmissions(ctx *fiber.Ctx) error
}

type submissionController struct {
	service service.ISubmissionService
	audit   service.IAuditService
}

func NewSubmissionController(service service.ISubmissionService, audit service.IAuditService) ISubmissionController {
	return &submissionController{service: service, audit: audit}
}

func (c *submissionController) RegisterRoutes(r fiber.Router) {
	r.Post("/operations/:operationId/submit", c.SubmitIncoming)
	r.Post("/submit-outgoing", c.SubmitOutgoing)
	r.Get("/submissions", c.ListSubmissions)
}

func (c *submissionController) SubmitIncoming(ctx *fiber.Ctx) error {
	var req dto.SubmitLogsRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.OperationId = utils.CopyString(ctx.Params("operationId"))

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitIncoming(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Operation and items updated successfully", res))
}

func (c *submissionController) SubmitOutgoing(ctx *fiber.Ctx) error {
	var req dto.SubmitLogsRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitOutgoing(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Outgoing items updated successfully", res))
}

func (c *submissionController) ListSubmissions(ctx *fiber.Ctx) error {
	var query dto.ListSubmissionsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query: "+err.Error())
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.audit.List(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get submissions", res))
}
