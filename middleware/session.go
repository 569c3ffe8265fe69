package middleware

import (
	"context"
	"net/http"

	"womart-storefront/auth"
	apperrors "womart-storefront/errors"
	"womart-storefront/models"
	"womart-storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "womart_session"

	ShopperContextKey = "shopper"
	UserContextKey    = "user"
)

// ShopperSource resolves a storefront session id to its shopper.
type ShopperSource interface {
	Get(ctx context.Context, sessionID string) *services.Shopper
}

// SessionOptions controls the session cookie. JWTSecret verifies bearer
// tokens; when empty the Authorization header is ignored.
type SessionOptions struct {
	MaxAge    int
	Secure    bool
	JWTSecret []byte
}

// Session attaches the shopper of the womart_session cookie to the request,
// issuing a new session id when the cookie is missing or malformed. A
// Bearer Authorization header signed with opts.JWTSecret overrides the
// logged-in user for this request only.
func Session(shoppers ShopperSource, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, opts.MaxAge, "/", "", opts.Secure, true)
		}

		shopper := shoppers.Get(c.Request.Context(), sessionID)
		c.Set(ShopperContextKey, shopper)

		user := shopper.User()
		if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok && len(opts.JWTSecret) > 0 {
			decoded, err := auth.VerifyToken(token, opts.JWTSecret)
			if err != nil {
				apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
				c.Abort()
				return
			}
			user = decoded
		}
		if user != nil {
			c.Set(UserContextKey, user)
		}
		c.Next()
	}
}

// GetShopper returns the shopper set by Session.
func GetShopper(c *gin.Context) (*services.Shopper, bool) {
	val, exists := c.Get(ShopperContextKey)
	if !exists {
		return nil, false
	}
	shopper, ok := val.(*services.Shopper)
	return shopper, ok && shopper != nil
}

// CurrentUser returns the user of this request, or nil for a guest.
func CurrentUser(c *gin.Context) *models.Session {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return nil
	}
	user, _ := val.(*models.Session)
	return user
}

// CurrentRole is the role of the request's user; guests are RoleGuest.
func CurrentRole(c *gin.Context) auth.Role {
	user := CurrentUser(c)
	if user == nil {
		return auth.RoleGuest
	}
	return auth.ParseRole(user.Role)
}

// Token is the backend bearer token of the request's user, or "".
func Token(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.Token
	}
	return ""
}
