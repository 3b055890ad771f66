package server

import (
	"errors"
	"strings"

	"bank-branches-backend/internal/api"
	"bank-branches-backend/internal/auth"
	"bank-branches-backend/internal/catalog"
	"bank-branches-backend/internal/config"
	"bank-branches-backend/internal/gql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrorHandler turns handler errors into {"error": "..."} responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, catalog.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, catalog.ErrBackendUnavailable):
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("backend unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "backend unavailable"})
	}

	log.Error().Err(err).Str("request_id", requestID(c)).Msg("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected server error"})
}

// New builds the HTTP application: liveness routes, the GraphQL endpoint at
// /gql and the REST shim under /api.
func New(cfg *config.Config, svc *catalog.Service) (*fiber.App, error) {
	schema, err := gql.NewSchema(svc)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "bank-branches",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(AccessLog())
	// inside AccessLog so a recovered panic is logged as a 500
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/health", api.HealthHandler())
	app.Get("/", api.RootHandler())

	apiGroup := app.Group("/api")
	apiGroup.Post("/auth/token", auth.TokenHandler(cfg.Auth))

	// the query API is public unless a JWT secret is configured
	if cfg.Auth.JWTSecret != "" {
		requireToken := auth.JWTMiddleware(cfg.Auth.JWTSecret)
		app.Use("/gql", requireToken)
		app.Use("/api/banks", requireToken)
		app.Use("/api/branches", requireToken)
	}

	gqlHandler := gql.Handler(schema)
	app.Get("/gql", gqlHandler)
	app.Post("/gql", gqlHandler)

	apiGroup.Get("/banks", api.ListBanksHandler(svc))
	apiGroup.Get("/banks/:id", api.GetBankHandler(svc))
	apiGroup.Get("/branches", api.ListBranchesHandler(svc))
	apiGroup.Get("/branches/:ifsc", api.GetBranchHandler(svc))

	return app, nil
}
