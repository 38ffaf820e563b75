package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/auth"
)

const sessionCookie = "session"

// SessionConfig controls the session cookie. Keys[0] signs new sessions; all
// keys are accepted when reading one.
type SessionConfig struct {
	Keys   [][]byte
	TTL    time.Duration
	Secure bool
}

func (s SessionConfig) set(c *fiber.Ctx, userID int64) error {
	if len(s.Keys) == 0 {
		return fiber.NewError(fiber.StatusInternalServerError, "no session key configured")
	}

	token, err := auth.GenerateSessionToken(userID, s.Keys[0], s.TTL)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.TTL),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s SessionConfig) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// userID reads the session cookie of the request.
func (s SessionConfig) userID(c *fiber.Ctx) (int64, error) {
	token := c.Cookies(sessionCookie)
	if token == "" {
		return 0, common.Unauthorized("No active session.")
	}

	id, err := auth.ParseSessionToken(token, s.Keys...)
	if err != nil {
		return 0, common.Unauthorized("No active session.").WithCause(err)
	}
	return id, nil
}
