package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/domain"
)

const ctxUserKey = "currentUser"

// NewRouter builds the stub API's gin engine. All routes live under
// /api/v1; everything except /login and /signup requires a bearer token.
// Extra middleware (like Latency) applies to every route.
func NewRouter(store *Store, logger *logrus.Logger, middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	h := &handlers{store: store, log: logger}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/login", h.Login)
		v1.POST("/signup", h.Signup)
	}

	protected := v1.Group("")
	protected.Use(bearerAuth(store, logger))
	{
		protected.DELETE("/logout", h.Logout)
		protected.GET("/me", h.Me)
		protected.PUT("/me", h.UpdateMe)
		protected.PUT("/me/password", h.ChangePassword)

		protected.GET("/cart", h.GetCart)
		protected.POST("/cart/add", h.AddCartItem)
		protected.PUT("/cart/update", h.UpdateCartItem)
		protected.DELETE("/cart/remove", h.RemoveCartItem)

		protected.GET("/products", h.ListProducts)
		protected.GET("/products/:id", h.GetProduct)
		protected.POST("/products", h.CreateProduct)
		protected.PATCH("/products/:id", h.UpdateProduct)
		protected.DELETE("/products/:id", h.DeleteProduct)

		protected.GET("/categories", h.ListCategories)
		protected.GET("/categories/:id", h.GetCategory)
		protected.POST("/categories", h.CreateCategory)
		protected.PATCH("/categories/:id", h.UpdateCategory)
		protected.DELETE("/categories/:id", h.DeleteCategory)

		protected.GET("/orders", h.ListOrders)
		protected.GET("/orders/:id", h.GetOrder)
		protected.POST("/orders", h.PlaceOrder)
		protected.PATCH("/orders/:id", h.UpdateOrderStatus)

		protected.GET("/users", h.ListUsers)
		protected.GET("/users/:id", h.GetUser)
		protected.POST("/users", h.CreateUser)
		protected.PATCH("/users/:id", h.UpdateUserAdmin)
		protected.DELETE("/users/:id", h.DeleteUser)

		protected.GET("/dashboard", h.Dashboard)
	}

	return router
}

// Latency delays every response by d, so local development can exercise
// the client's loading and timeout paths against realistic round-trips.
func Latency(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d > 0 {
			time.Sleep(d)
		}
		c.Next()
	}
}

// bearerAuth resolves the Authorization header to a user and aborts with
// 401 when the token is missing or unknown.
func bearerAuth(store *Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Stub: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			log.Warnf("Stub: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		user, ok := store.UserForToken(parts[1])
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserKey, user)
		c.Set("rawToken", parts[1])
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.User {
	return c.MustGet(ctxUserKey).(domain.User)
}

func requireAdmin(c *gin.Context) bool {
	user := currentUser(c)
	if !user.IsAdmin() {
		Error(c, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
