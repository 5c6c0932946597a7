package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anupgautam23/oms-frontend/internal/workspace"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

const workspaceKey = "portal_workspace"

// Resolver looks up or creates the workspace of a client.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*workspace.Workspace, error)
}

// CookieOptions controls the workspace cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// WorkspaceMiddleware binds every request to the workspace named by its
// signed cookie, issuing a fresh workspace when the cookie is absent or
// invalid.
type WorkspaceMiddleware struct {
	tokens   *TokenManager
	registry Resolver
	cookie   CookieOptions
	logger   *zap.Logger
}

// NewWorkspaceMiddleware constructs middleware.
func NewWorkspaceMiddleware(tokens *TokenManager, registry Resolver, cookie CookieOptions, logger *zap.Logger) *WorkspaceMiddleware {
	if cookie.Name == "" {
		cookie.Name = "oms_sid"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceMiddleware{tokens: tokens, registry: registry, cookie: cookie, logger: logger}
}

// Handle resolves the workspace and converts a forced login redirect raised
// while serving the request into the response.
func (m *WorkspaceMiddleware) Handle(c *fiber.Ctx) error {
	id := ""
	if raw := c.Cookies(m.cookie.Name); raw != "" {
		if claims, err := m.tokens.ParseToken(raw); err == nil {
			id = claims.WorkspaceID
		} else {
			m.logger.Debug("discarding invalid workspace cookie", zap.Error(err))
		}
	}
	if id == "" {
		id = uuid.NewString()
		if err := m.issue(c, id); err != nil {
			return apperrors.NewInternalError(err)
		}
	}

	ws, err := m.registry.Resolve(c.UserContext(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	// only redirects raised while this request runs shape its response
	mark := ws.Navigator.Mark()
	c.Locals(workspaceKey, ws)

	err = c.Next()
	if ws.Navigator.RedirectedSince(mark) {
		return apperrors.WithRedirect(apperrors.NewUnauthorized("session expired"), workspace.LoginPath)
	}
	return err
}

func (m *WorkspaceMiddleware) issue(c *fiber.Ctx, id string) error {
	value, expiresAt, err := m.tokens.GenerateToken(id)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   m.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// WorkspaceFromContext retrieves the workspace bound to the request.
func WorkspaceFromContext(c *fiber.Ctx) (*workspace.Workspace, bool) {
	val := c.Locals(workspaceKey)
	if val == nil {
		return nil, false
	}
	ws, ok := val.(*workspace.Workspace)
	return ws, ok
}
