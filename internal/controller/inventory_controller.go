package controller

import (
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/pkg/serverutils"
	"warehouse-scan-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInventoryController interface {
	RegisterRoutes(r fiber.Router)
	ListOperations(ctx *fiber.Ctx) error
	OperationItems(ctx *fiber.Ctx) error
	OperationCustomer(ctx *fiber.Ctx) error
	FindCustomer(ctx *fiber.Ctx) error
	CustomerItems(ctx *fiber.Ctx) error
	IncomingItems(ctx *fiber.Ctx) error
	OutgoingItems(ctx *fiber.Ctx) error
	UpdateItemStatus(ctx *fiber.Ctx) error
}

type inventoryController struct {
	service service.IInventoryService
}

func NewInventoryController(service service.IInventoryService) IInventoryController {
	return &inventoryController{service: service}
}

func (c *inventoryController) RegisterRoutes(r fiber.Router) {
	ops := r.Group("/operations")
	ops.Get("", c.ListOperations)
	ops.Get("/:operationId/items", c.OperationItems)
	ops.Get("/:recordId/customer", c.OperationCustomer)

	customers := r.Group("/customers")
	customers.Get("", c.FindCustomer)
	customers.Get("/:customerId/items", c.CustomerItems)

	items := r.Group("/items")
	items.Get("/incoming", c.IncomingItems)
	items.Get("/outgoing", c.OutgoingItems)
	items.Patch("/:itemId/status", c.UpdateItemStatus)
}

func (c *inventoryController) ListOperations(ctx *fiber.Ctx) error {
	res, err := c.service.ListOperations(ctx.UserContext(), ctx.Query("flow"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get operations", res))
}

func (c *inventoryController) OperationItems(ctx *fiber.Ctx) error {
	res, err := c.service.ItemsForOperation(ctx.UserContext(), ctx.Params("operationId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get operation items", res))
}

func (c *inventoryController) OperationCustomer(ctx *fiber.Ctx) error {
	res, err := c.service.ResolveOperationCustomer(ctx.UserContext(), ctx.Params("recordId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get operation customer", res))
}

func (c *inventoryController) FindCustomer(ctx *fiber.Ctx) error {
	recordID := ctx.Query("customerRecordId")
	if recordID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "customerRecordId query parameter is required"))
	}

	res, err := c.service.FindCustomer(ctx.UserContext(), recordID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get customer", res))
}

func (c *inventoryController) CustomerItems(ctx *fiber.Ctx) error {
	res, err := c.service.ItemsForCustomer(ctx.UserContext(), ctx.Params("customerId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get customer items", res))
}

func (c *inventoryController) IncomingItems(ctx *fiber.Ctx) error {
	operationID := ctx.Query("operationId")
	if operationID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "operationId query parameter is required"))
	}

	res, err := c.service.IncomingItems(ctx.UserContext(), operationID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get incoming items", res))
}

func (c *inventoryController) OutgoingItems(ctx *fiber.Ctx) error {
	customerID := ctx.Query("customerId")
	if customerID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "customerId query parameter is required"))
	}

	res, err := c.service.StoredItemsForCustomer(ctx.UserContext(), customerID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get outgoing items", res))
}

func (c *inventoryController) UpdateItemStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateItemStatusRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	req.ItemId = ctx.Params("itemId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateItemStatus(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update item status", res))
}
