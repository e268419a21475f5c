package serverutils

import (
	"errors"

	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors into BaseResponse envelopes.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, body := Classify(err)
		if code >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(body)
	}
}

// Classify maps an error to its HTTP status and response body.
func Classify(err error) (int, BaseResponse[any]) {
	var (
		verr     *ValidationError
		chunkErr *scan.ChunkError
		fiberErr *fiber.Error
		apiErr   *airtable.APIError
	)

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, DetailedErrorResponse(fiber.StatusBadRequest, verr.Error(), verr.Fields)
	case scan.IsValidation(err):
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, err.Error())
	case scan.IsLookup(err), errors.Is(err, airtable.ErrNotFound):
		return fiber.StatusNotFound, ErrorResponse(fiber.StatusNotFound, err.Error())
	case errors.As(err, &chunkErr):
		return fiber.StatusBadGateway, DetailedErrorResponse(fiber.StatusBadGateway, err.Error(), fiber.Map{
			"applied_batches": chunkErr.Applied,
			"total_batches":   chunkErr.Total,
		})
	case scan.IsTransport(err), errors.As(err, &apiErr):
		return fiber.StatusBadGateway, ErrorResponse(fiber.StatusBadGateway, err.Error())
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	default:
		return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "internal server error")
	}
}
