// Package server exposes a MockStore over the storefront HTTP surface, so
// the remote gateway client can be exercised end to end without a production
// backend.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/go-storefront/internal/gateway"
)

type Server struct {
	store  *gateway.MockStore
	secret string
	log    *slog.Logger
	engine *gin.Engine
}

// New builds the dev API server. version is the path prefix ("v1"); secret
// must match the MockStore's JWT secret so issued tokens validate.
func New(store *gateway.MockStore, version, secret string, log *slog.Logger) *Server {
	s := &Server{store: store, secret: secret, log: log}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/" + version)
	{
		products := api.Group("/products")
		products.GET("", s.listProducts)
		products.GET("/featured", s.featuredProducts)
		products.GET("/:id", s.getProduct)
		products.GET("/:id/reviews", s.listReviews)
		products.POST("/:id/reviews", s.requireAuth(), s.addReview)

		api.POST("/auth/login", s.login)
		api.POST("/auth/register", s.register)

		authed := api.Group("", s.requireAuth())
		{
			authed.POST("/auth/logout", s.logout)
			authed.GET("/auth/me", s.currentUser)
			authed.PUT("/auth/profile", s.updateProfile)
			authed.PUT("/auth/change-password", s.changePassword)

			authed.GET("/cart", s.getCart)
			authed.DELETE("/cart", s.clearCart)
			authed.POST("/cart/items", s.addCartItem)
			authed.PUT("/cart/items/:id", s.updateCartItem)
			authed.DELETE("/cart/items/:id", s.removeCartItem)

			authed.GET("/orders", s.listOrders)
			authed.POST("/orders", s.createOrder)
			authed.GET("/orders/:id", s.getOrder)
			authed.PUT("/orders/:id/status", s.updateOrderStatus)

			authed.GET("/wishlist", s.listWishlist)
			authed.POST("/wishlist", s.addWishlistItem)
			authed.DELETE("/wishlist/:id", s.removeWishlistItem)

			authed.GET("/notifications", s.listNotifications)
			authed.PUT("/notifications/read-all", s.markAllNotificationsRead)
			authed.PUT("/notifications/:id/read", s.markNotificationRead)

			authed.POST("/payments/process", s.processPayment)
			authed.GET("/payments/methods", s.listPaymentMethods)
			authed.GET("/payments/history", s.listPaymentHistory)

			authed.GET("/analytics/products", s.productAnalytics)
			authed.GET("/analytics/sales", s.salesStatistics)
		}
	}

	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)
		c.Next()
		if s.log != nil {
			s.log.Info("request",
				"request_id", requestID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
		}
	}
}

// respondError maps a gateway error onto its HTTP status; anything without a
// code is an internal error.
func respondError(c *gin.Context, err error) {
	code := gateway.StatusCode(err)
	if code == 0 {
		code = http.StatusInternalServerError
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
