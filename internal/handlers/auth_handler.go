package handlers

import (
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to register")
	}

	message := "Registration successful"
	if !user.EmailVerified {
		message = "Registration successful. Please check your email to verify your account."
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Message: message,
		User:    dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to log in")
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to refresh token")
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.LogoutRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), p, &req); err != nil {
		return respondError(c, err, "Failed to logout")
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal.Get(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.authService.Me(c.UserContext(), p)
	if err != nil {
		return respondError(c, err, "Failed to load profile")
	}
	return c.JSON(dto.MeResponse{
		User:     dto.NewUserResponse(user),
		Landlord: user.Landlord,
		Tenant:   user.Tenant,
	})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.authService.VerifyEmail(c.UserContext(), c.Query("token")); err != nil {
		return respondError(c, err, "Failed to verify email")
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ResendVerification(c.UserContext(), req.Email); err != nil {
		return respondError(c, err, "Failed to resend verification email")
	}
	return c.JSON(dto.MessageResponse{Message: "Verification email sent"})
}

// VerifyLandlord lets the tenant sign-up form check a landlord e-mail before
// submitting.
func (h *AuthHandler) VerifyLandlord(c *fiber.Ctx) error {
	exists, err := h.authService.LandlordExists(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, err, "Failed to verify landlord")
	}
	return c.JSON(dto.LandlordExistsResponse{Exists: exists})
}
