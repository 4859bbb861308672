// Package api binds a webhook Provider implementation to the HTTP routes
// of the external-dns webhook protocol.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/provider"

	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// Api is the serving surface of the webhook dispatcher.
type Api interface {
	Listen(address string) error
	Test(req *http.Request, msTimeout ...int) (resp *http.Response, err error)
}

type api struct {
	logger *zap.Logger
	app    *fiber.App
}

// Test feeds a request through the app without a network listener.
func (a api) Test(req *http.Request, msTimeout ...int) (resp *http.Response, err error) {
	return a.app.Test(req, msTimeout...)
}

// Listen serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a api) Listen(address string) error {
	go func() {
		listenAddress := address

		// "localhost:8888" binds all interfaces; a bare port gets a colon.
		if strings.HasPrefix(address, "localhost:") {
			listenAddress = ":" + strings.Split(address, ":")[1]
			a.logger.Info("Changed listen address from localhost to all interfaces",
				zap.String("original", address),
				zap.String("new", listenAddress))
		} else if !strings.Contains(address, ":") {
			listenAddress = ":" + address
		}

		a.logger.Debug("Starting server", zap.String("address", listenAddress))
		err := a.app.Listen(listenAddress)
		if err != nil {
			a.logger.Fatal("Error starting the server", zap.String("error", err.Error()))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigCh

	a.logger.Info(
		"shutting down server due to received signal",
		zap.String("signal", sig.String()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := a.app.ShutdownWithContext(ctx)
	if err != nil {
		a.logger.Error("error shutting down server", zap.String("error", err.Error()))
	}

	cancel()

	return err
}

// New builds the dispatcher for the given provider. The route table is the
// one current external-dns drivers speak: negotiation at the root, shared
// GET/POST /records, POST /adjustendpoints and GET /healthz.
func New(logger *zap.Logger, provider provider.Provider) Api {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Error("Unhandled error in request",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()))

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			c.Set(contentTypeHeader, contentTypePlaintext)
			return c.Status(code).SendString(err.Error())
		},
	})

	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(pprof.New(pprof.Config{Prefix: "/pprof"}))
	app.Use(fiberrecover.New())
	app.Use(helmet.New())

	webhookRoutes := webhook{
		provider: provider,
		logger:   logger,
	}

	app.Get("/healthz", webhookRoutes.Healthz)
	app.Get("/", webhookRoutes.Negotiate)
	app.Get("/records", webhookRoutes.Records)
	app.Post("/records", webhookRoutes.ApplyChanges)
	app.Post("/adjustendpoints", webhookRoutes.AdjustEndpoints)

	return &api{
		logger: logger,
		app:    app,
	}
}

type webhook struct {
	provider provider.Provider
	logger   *zap.Logger
}

// providerError maps any provider-reported failure to 500 with the error
// text as the body. The client only ever reconstructs (status, text).
func providerError(ctx *fiber.Ctx, err error) error {
	ctx.Set(contentTypeHeader, contentTypePlaintext)
	return ctx.Status(fiber.StatusInternalServerError).SendString(err.Error())
}
