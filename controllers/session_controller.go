package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"womart-storefront/auth"
	"womart-storefront/clients"
	apperrors "womart-storefront/errors"
	"womart-storefront/middleware"
	"womart-storefront/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials for a backend token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// SessionController handles login, logout and the session view.
type SessionController struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewSessionController(a Authenticator, logger *zap.Logger) *SessionController {
	return &SessionController{auth: a, logger: logger}
}

// SessionView is what the header needs to render.
type SessionView struct {
	Authenticated bool            `json:"authenticated"`
	User          *models.Session `json:"user,omitempty"`
	Role          string          `json:"role"`
	RoleName      string          `json:"roleName"`
	Home          string          `json:"home"`
	NavLinks      []auth.NavLink  `json:"navLinks"`
	CartCount     int             `json:"cartCount"`
}

// Login handles POST /api/session/login.
func (sc *SessionController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		apperrors.Respond(c, apperrors.ErrInvalidCredentials)
		return
	}

	shopper, ok := middleware.GetShopper(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrInternalServer)
		return
	}

	token, err := sc.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidCredentials, err))
			return
		}
		sc.logger.Error("Login request failed", zap.String("email", req.Email), zap.Error(err))
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrConnection, err))
		return
	}

	session, err := auth.SessionFromToken(token)
	if err != nil {
		sc.logger.Warn("Backend issued an unreadable token", zap.Error(err))
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
		return
	}
	shopper.SetUser(session)

	role := auth.ParseRole(session.Role)
	sc.logger.Info("User logged in", zap.String("user_id", session.ID), zap.String("role", role.String()))

	c.JSON(http.StatusOK, gin.H{
		"session":  buildSessionView(session, shopper.Cart.Count()),
		"redirect": auth.HomePath(role),
	})
}

// Logout handles POST /api/session/logout. The cart is kept.
func (sc *SessionController) Logout(c *gin.Context) {
	if shopper, ok := middleware.GetShopper(c); ok {
		shopper.SetUser(nil)
		shopper.Coupons.Remove()
	}
	c.JSON(http.StatusOK, gin.H{"redirect": auth.PathLogin})
}

// Session handles GET /api/session.
func (sc *SessionController) Session(c *gin.Context) {
	count := 0
	if shopper, ok := middleware.GetShopper(c); ok {
		count = shopper.Cart.Count()
	}
	c.JSON(http.StatusOK, buildSessionView(middleware.CurrentUser(c), count))
}

func buildSessionView(user *models.Session, cartCount int) SessionView {
	role := auth.RoleGuest
	if user != nil {
		role = auth.ParseRole(user.Role)
	}
	view := SessionView{
		Authenticated: user != nil,
		User:          user,
		Role:          role.ID(),
		RoleName:      role.DisplayName(),
		Home:          auth.HomePath(role),
		NavLinks:      auth.NavLinks(role),
	}
	if role == auth.RoleConsumer {
		view.CartCount = cartCount
	}
	return view
}
