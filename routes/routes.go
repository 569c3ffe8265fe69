package routes

import (
	"net/http"
	"time"

	"womart-storefront/controllers"
	apperrors "womart-storefront/errors"
	"womart-storefront/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ServiceName = "womart-storefront"

// Dependencies groups what the storefront router needs.
type Dependencies struct {
	Logger       *zap.Logger
	Shoppers     middleware.ShopperSource
	Session      *controllers.SessionController
	Cart         *controllers.CartController
	CouponLimits *middleware.RateLimiter
	Metrics      middleware.HTTPRecorder
	Cookie       middleware.SessionOptions
	Timeout      time.Duration
}

// NewRouter builds the engine with the middleware chain and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics, ServiceName))
	}
	if deps.Timeout > 0 {
		r.Use(middleware.Timeout(deps.Timeout))
	}
	r.Use(apperrors.ErrorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": ServiceName})
	})

	app := r.Group("")
	app.Use(middleware.Session(deps.Shoppers, deps.Cookie))
	app.Use(middleware.RequireRole(deps.Logger))
	RegisterRoutes(app, deps)
	return r
}

// RegisterRoutes sets up the session API and the consumer cart routes.
func RegisterRoutes(r *gin.RouterGroup, deps Dependencies) {
	session := r.Group("/api/session")
	session.POST("/login", deps.Session.Login)
	session.POST("/logout", deps.Session.Logout)
	session.GET("", deps.Session.Session)

	cart := r.Group("/usuario/carrinho")
	cart.GET("", deps.Cart.View)
	cart.DELETE("", deps.Cart.Clear)
	cart.POST("/itens", deps.Cart.AddItem)
	cart.PATCH("/itens/:id", deps.Cart.UpdateItem)
	cart.DELETE("/itens/:id", deps.Cart.RemoveItem)
	if deps.CouponLimits != nil {
		cart.POST("/cupom", middleware.RateLimit(deps.CouponLimits), deps.Cart.ApplyCoupon)
	} else {
		cart.POST("/cupom", deps.Cart.ApplyCoupon)
	}
	cart.DELETE("/cupom", deps.Cart.RemoveCoupon)
	cart.POST("/finalizar", deps.Cart.Checkout)
}
