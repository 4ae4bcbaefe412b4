package http

import (
	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/usecase"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	auth     *usecase.Auth
	sessions *usecase.SessionManager
}

func NewAuthHandler(auth *usecase.Auth, sessions *usecase.SessionManager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type signUpReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account. Work done under the current guest identity is
// re-keyed to the new account, and the guest session is dropped.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	guest := identityFrom(c)
	res, err := h.auth.SignUp(c.Context(), req.Email, req.Password, req.FullName, guest)
	if err != nil {
		return respondError(c, err)
	}

	if guest.Guest {
		h.sessions.Forget(guest.Key())
	}
	c.ClearCookie(guestCookie)
	return c.Status(fiber.StatusCreated).JSON(res)
}

// SignIn verifies credentials and issues a token. Guest work is not adopted
// here; adoption only happens at sign-up.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	res, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.CurrentUser(c.Context(), identityFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":       user.ID.String(),
		"email":    user.Email,
		"fullName": user.FullName,
		"role":     user.Role,
	})
}
