package controller

import (
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/pkg/serverutils"
	"warehouse-scan-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IScanSessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Discard(ctx *fiber.Ctx) error
	FeedKeys(ctx *fiber.Ctx) error
	SubmitBarcode(ctx *fiber.Ctx) error
	Unselect(ctx *fiber.Ctx) error
	CommitLog(ctx *fiber.Ctx) error
	EditLog(ctx *fiber.Ctx) error
	ClearLog(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
}

type scanSessionController struct {
	service service.IScanSessionService
}

func NewScanSessionController(service service.IScanSessionService) IScanSessionController {
	return &scanSessionController{service: service}
}

func (c *scanSessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/scan/sessions")
	h.Post("", c.Start)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Discard)
	h.Post("/:id/keys", c.FeedKeys)
	h.Post("/:id/barcodes", c.SubmitBarcode)
	h.Delete("/:id/selection/:itemId", c.Unselect)
	h.Post("/:id/logs", c.CommitLog)
	h.Post("/:id/logs/:logId/edit", c.EditLog)
	h.Delete("/:id/logs/:logId", c.ClearLog)
	h.Post("/:id/submit", c.Submit)
}

func (c *scanSessionController) Start(ctx *fiber.Ctx) error {
	var req dto.StartScanSessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start scan session", res))
}

func (c *scanSessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show scan session", res))
}

func (c *scanSessionController) Discard(ctx *fiber.Ctx) error {
	if err := c.service.Discard(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success discard scan session", nil))
}

func (c *scanSessionController) FeedKeys(ctx *fiber.Ctx) error {
	var req dto.FeedKeysRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.FeedKeys(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success feed keys", res))
}

func (c *scanSessionController) SubmitBarcode(ctx *fiber.Ctx) error {
	var req dto.BarcodeRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitBarcode(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success scan barcode", res))
}

func (c *scanSessionController) Unselect(ctx *fiber.Ctx) error {
	res, err := c.service.Unselect(ctx.UserContext(), ctx.Params("id"), ctx.Params("itemId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success unselect item", res))
}

func (c *scanSessionController) CommitLog(ctx *fiber.Ctx) error {
	res, err := c.service.CommitLog(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success commit log", res))
}

func (c *scanSessionController) EditLog(ctx *fiber.Ctx) error {
	res, err := c.service.EditLog(ctx.UserContext(), ctx.Params("id"), ctx.Params("logId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success edit log", res))
}

func (c *scanSessionController) ClearLog(ctx *fiber.Ctx) error {
	res, err := c.service.ClearLog(ctx.UserContext(), ctx.Params("id"), ctx.Params("logId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear log", res))
}

func (c *scanSessionController) Submit(ctx *fiber.Ctx) error {
	res, err := c.service.Submit(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success submit scan session", res))
}
