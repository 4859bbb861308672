package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Healthz reports provider liveness as plain text.
func (w webhook) Healthz(ctx *fiber.Ctx) error {
	status, err := w.provider.Healthz(ctx.UserContext())
	if err != nil {
		w.logger.Error("Health check failed",
			zap.String(logFieldError, err.Error()))
		return providerError(ctx, err)
	}

	ctx.Set(contentTypeHeader, contentTypePlaintext)
	return ctx.Status(fiber.StatusOK).SendString(status)
}
