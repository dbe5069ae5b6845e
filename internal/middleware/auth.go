package middleware

import (
	"errors"
	"strconv"

	"github.com/fnt-jany/day4/internal/config"
	"github.com/fnt-jany/day4/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "unauthorized",
			})
		},
	})
}

// CurrentUserID extracts the session user's id from JWT claims in context.
func CurrentUserID(c *fiber.Ctx) (int, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("missing sub claim")
	}

	userID, err := strconv.Atoi(sub)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid sub claim")
	}
	return userID, nil
}
