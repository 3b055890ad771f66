package auth

import (
	"strings"

	"bank-branches-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// TokenHandler exchanges the admin credentials for a catalog access token.
func TokenHandler(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.JWTSecret == "" || cfg.AdminPasswordHash == "" {
			return fiber.NewError(fiber.StatusNotFound, "token issuance is disabled")
		}

		var body TokenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Username = strings.TrimSpace(body.Username)

		hashErr := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(body.Password))
		if body.Username != cfg.AdminUser || hashErr != nil {
			log.Warn().Str("username", body.Username).Msg("rejected token request")
			return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, body.Username, cfg.TokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		return c.JSON(TokenResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresIn: int64(cfg.TokenTTL.Seconds()),
		})
	}
}
