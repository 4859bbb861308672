package api

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/errors"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// ApplyChanges unpacks a posted change batch and applies it through the
// provider. An absent or null body is a valid empty batch.
func (w webhook) ApplyChanges(ctx *fiber.Ctx) error {
	w.logger.Info("ApplyChanges endpoint called",
		zap.String("remote_ip", ctx.IP()),
		zap.String("request_id", ctx.GetRespHeader("X-Request-ID", "-")),
		zap.Int("content_length", ctx.Request().Header.ContentLength()))

	var batch plan.Changes
	body := ctx.Body()
	if len(body) > 0 && !bytes.Equal(body, []byte("null")) {
		if err := json.Unmarshal(body, &batch); err != nil {
			w.logger.Error("Failed to parse request body as change batch",
				zap.String(logFieldError, err.Error()))
			ctx.Set(contentTypeHeader, contentTypePlaintext)
			return ctx.Status(fiber.StatusBadRequest).SendString(errors.ErrInvalidJSONFormat.Error())
		}
	}

	w.logger.Debug(
		"Parsed changes",
		zap.Int("create_count", len(batch.Create)),
		zap.Int("delete_count", len(batch.Delete)),
		zap.Int("update_count", len(batch.UpdateNew)),
	)

	changes := batch.Changes()
	if dropped := len(batch.UpdateOld) + len(batch.Delete) + len(batch.Create) - len(changes); dropped > 0 {
		w.logger.Warn("Dropped update entries with no matching new state",
			zap.Int("dropped", dropped))
	}

	if err := w.provider.ApplyChanges(ctx.UserContext(), changes); err != nil {
		w.logger.Error("Failed to apply changes",
			zap.String(logFieldError, err.Error()))
		return providerError(ctx, err)
	}

	ctx.Status(fiber.StatusNoContent)
	return nil
}
