package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/softdepot/backend/internal/config"
)

const (
	LocalsIdentity  = "identity"
	LocalsSessionID = "session_id"
)

func bearerOr(c *fiber.Ctx, header string) string {
	token := c.Get(header)
	if token == "" {
		auth := c.Get("Authorization")
		const prefix = "Bearer "
		if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
			token = auth[len(prefix):]
		}
	}
	return token
}

func AdminAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := cfg.Auth.AdminAPIKey
		if apiKey == "" {
			return c.Next()
		}
		if bearerOr(c, "X-Admin-Token") != apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}

// AgentAuth guards the dispatch API with the shared agent token. An empty
// configured token disables the check (lab setups).
func AgentAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := cfg.Auth.AgentToken
		if token == "" {
			return c.Next()
		}
		if bearerOr(c, "X-Agent-Token") != token {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}

// Identity resolves the acting user and session for portal routes. The
// authentication protocol itself is the SSO proxy's problem; by the time a
// request gets here the identity header is trusted. The session cookie keys
// the hostname cache and is issued here when absent.
func Identity(cfg *config.Config) fiber.Handler {
	header := cfg.Auth.IdentityHeader
	if header == "" {
		header = "X-Remote-User"
	}
	cookieName := cfg.Session.CookieName
	if cookieName == "" {
		cookieName = "sdp_session"
	}

	return func(c *fiber.Ctx) error {
		identity := c.Get(header)
		if identity == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		sessionID := c.Cookies(cookieName)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Expires:  time.Now().Add(cfg.Session.TTL),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		c.Locals(LocalsIdentity, identity)
		c.Locals(LocalsSessionID, sessionID)
		return c.Next()
	}
}
