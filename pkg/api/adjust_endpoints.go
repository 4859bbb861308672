package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/errors"
)

// AdjustEndpoints lets the provider canonicalize a desired endpoint list
// before the driver diffs it against current records.
func (w webhook) AdjustEndpoints(ctx *fiber.Ctx) error {
	w.logger.Info("AdjustEndpoints endpoint called",
		zap.String("remote_ip", ctx.IP()),
		zap.String("request_id", ctx.GetRespHeader("X-Request-ID", "-")),
		zap.Int("content_length", ctx.Request().Header.ContentLength()))

	var endpoints []*endpoint.Endpoint
	if err := json.Unmarshal(ctx.Body(), &endpoints); err != nil {
		w.logger.Error("Failed to parse request body as endpoint list",
			zap.String(logFieldError, err.Error()),
			zap.String("raw_body", string(ctx.Body())))
		ctx.Set(contentTypeHeader, contentTypePlaintext)
		return ctx.Status(fiber.StatusBadRequest).SendString(errors.ErrInvalidJSONFormat.Error())
	}

	adjusted, err := w.provider.AdjustEndpoints(ctx.UserContext(), endpoints)
	if err != nil {
		w.logger.Error("Failed to adjust endpoints",
			zap.String(logFieldError, err.Error()))
		return providerError(ctx, err)
	}

	w.logger.Debug("Adjusted endpoints",
		zap.Int("original_count", len(endpoints)),
		zap.Int("adjusted_count", len(adjusted)))

	response, err := json.Marshal(adjusted)
	if err != nil {
		w.logger.Error("Failed to marshal adjusted endpoints response",
			zap.Error(err))
		return providerError(ctx, err)
	}

	ctx.Set(varyHeader, contentTypeHeader)
	ctx.Set(contentTypeHeader, MediaTypeFormatAndVersion)
	return ctx.Send(response)
}
