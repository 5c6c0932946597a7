package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/api/dto"
	"github.com/anupgautam23/oms-frontend/internal/workspace"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// RegisteredMessage is shown on the login page after sign up.
const RegisteredMessage = "Registration successful! Please sign in."

// SessionHandler exposes sign in, sign up and sign out.
type SessionHandler struct{}

// NewSessionHandler constructs handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	user := ws.Session.User()
	return respond(c, http.StatusOK, dto.SessionResponse{
		User:            user,
		IsAuthenticated: user != nil,
		IsLoading:       ws.Session.IsLoading(),
	})
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if problems := req.Validate(); len(problems) > 0 {
		return apperrors.NewValidationError("invalid login form", problems)
	}

	if !ws.Session.Login(c.UserContext(), req.Email, req.Password) {
		return apperrors.NewOperationFailed(ws.Notifications.LastError(), http.StatusUnauthorized)
	}
	return respond(c, http.StatusOK, dto.SessionResponse{
		User:            ws.Session.User(),
		IsAuthenticated: true,
		IsLoading:       ws.Session.IsLoading(),
	})
}

// Register handles POST /api/session/register.
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if problems := req.Validate(); len(problems) > 0 {
		return apperrors.NewValidationError("invalid registration form", problems)
	}

	if !ws.Session.Register(c.UserContext(), req.Name, req.Email, req.Password) {
		return apperrors.NewOperationFailed(ws.Notifications.LastError(), http.StatusBadRequest)
	}
	return respond(c, http.StatusCreated, dto.RegisterResponse{
		Message:  RegisteredMessage,
		Email:    req.Email,
		Redirect: workspace.LoginPath,
	})
}

// Logout handles POST /api/session/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	ws.Session.Logout(c.UserContext())
	return respond(c, http.StatusOK, fiber.Map{"redirect": workspace.LoginPath})
}
