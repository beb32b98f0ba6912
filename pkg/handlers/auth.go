package handlers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Authenticator is the OAuth session manager as seen by the HTTP layer.
type Authenticator interface {
	AuthURL() string
	HandleCallback(ctx context.Context, code string) (string, error)
}

type AuthHandler struct {
	auth              Authenticator
	clientRedirectURL string
}

func NewAuthHandler(auth Authenticator, clientRedirectURL string) *AuthHandler {
	return &AuthHandler{auth: auth, clientRedirectURL: clientRedirectURL}
}

// GoogleAuth redirects the caller into the provider's consent screen.
func (h *AuthHandler) GoogleAuth(c *fiber.Ctx) error {
	return c.Redirect(h.auth.AuthURL())
}

// GoogleCallback finishes the OAuth dance and hands the session credential
// back to the configured client endpoint as a query parameter.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	credential, err := h.auth.HandleCallback(c.Context(), c.Query("code"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}
	return c.Redirect(fmt.Sprintf("%s?token=%s", h.clientRedirectURL, url.QueryEscape(credential)))
}
