package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/decision-match/internal/predict"
)

const appName = "Decision Match API"

type Config struct {
	Version      string
	ArtifactPath string
	ReportPath   string
	// DefaultThreshold applies when /predict has no threshold parameter.
	// Nil means predict.DefaultThreshold; zero is a valid threshold.
	DefaultThreshold *float64
	// RateLimit is the allowed /predict requests per second per client. Zero disables limiting.
	RateLimit float64
	Burst     int
}

// New builds the fiber application around svc.
func New(svc *predict.Service, cfg Config, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultThreshold == nil {
		threshold := predict.DefaultThreshold
		cfg.DefaultThreshold = &threshold
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(accessLog(logger))

	h := &Handler{svc: svc, cfg: cfg, logger: logger}
	Register(app, h, newClientLimiter(cfg.RateLimit, cfg.Burst))

	return app
}

// Register wires the routes onto app.
func Register(app *fiber.App, h *Handler, limiter *clientLimiter) {
	app.Get("/healthz", h.Health)
	app.Get("/examples", h.Examples)
	app.Get("/metrics", h.Metrics)
	app.Post("/predict", rateLimit(limiter), h.Predict)
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("unhandled error",
				zap.String("path", c.Path()),
				zap.String("request_id", requestID(c)),
				zap.Error(err),
			)
		}

		return Error(c, code, message)
	}
}
