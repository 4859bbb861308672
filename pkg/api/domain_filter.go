package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Negotiate serves the protocol root: it initializes the provider and
// returns the domain filter the driver should scope itself to.
func (w webhook) Negotiate(ctx *fiber.Ctx) error {
	w.logger.Info("Negotiate endpoint called",
		zap.String("remote_ip", ctx.IP()),
		zap.String("user_agent", string(ctx.Request().Header.UserAgent())),
		zap.String("request_id", ctx.GetRespHeader("X-Request-ID", "-")))

	filter, err := w.provider.Init(ctx.UserContext())
	if err != nil {
		w.logger.Error("Provider initialization failed",
			zap.String(logFieldError, err.Error()))
		return providerError(ctx, err)
	}

	response, err := json.Marshal(filter)
	if err != nil {
		w.logger.Error("Failed to marshal domain filter response",
			zap.Error(err))
		return providerError(ctx, err)
	}

	w.logger.Debug("Returning domain filter",
		zap.Strings("filters", filter.Filters))

	ctx.Set(varyHeader, contentTypeHeader)
	ctx.Set(contentTypeHeader, MediaTypeFormatAndVersion)
	return ctx.Send(response)
}
