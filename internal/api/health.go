package api

import "github.com/gofiber/fiber/v2"

// HealthHandler reports liveness only; it never touches the database.
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": "Bank Branches API is running",
		})
	}
}

func RootHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":            "Bank Branches GraphQL API",
			"graphql_endpoint":   "/gql",
			"graphql_playground": "/gql (GET request for playground)",
		})
	}
}
