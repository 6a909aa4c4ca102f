package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

const claimsKey = "claims"

func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid authorization header format"})
	}

	claims, err := s.auth.Signer().Verify(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

func requireAdmin(c *fiber.Ctx) error {
	if claimsFrom(c).Role != constants.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	if claims == nil {
		return &auth.Claims{}
	}
	return claims
}

type serviceHandler func(c *fiber.Ctx, svc *tracker.Service) error

// withService resolves the caller's tracker before running h.
func (s *Server) withService(h serviceHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc, err := s.services(c.UserContext(), claimsFrom(c))
		if err != nil {
			return err
		}
		return h(c, svc)
	}
}
