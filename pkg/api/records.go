package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Records returns the provider's current record set.
func (w webhook) Records(ctx *fiber.Ctx) error {
	w.logger.Info("Records endpoint called",
		zap.String("remote_ip", ctx.IP()),
		zap.String("method", ctx.Method()),
		zap.String("path", ctx.Path()),
		zap.String("request_id", ctx.GetRespHeader("X-Request-ID", "-")))

	records, err := w.provider.Records(ctx.UserContext())
	if err != nil {
		w.logger.Error("Failed to get records from provider",
			zap.String(logFieldError, err.Error()))
		return providerError(ctx, err)
	}

	if len(records) == 0 {
		w.logger.Debug("No records returned from provider")
	}

	response, err := json.Marshal(records)
	if err != nil {
		w.logger.Error("Failed to marshal records response",
			zap.Error(err))
		return providerError(ctx, err)
	}

	w.logger.Debug("Returning records",
		zap.Int("count", len(records)))

	ctx.Set(varyHeader, "Accept-Encoding")
	ctx.Set(contentTypeHeader, MediaTypeFormatAndVersion)
	return ctx.Send(response)
}
