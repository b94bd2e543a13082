// Package router assembles the gin engine and its routes.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"shop_backend/internal/app/di"
	"shop_backend/internal/feature/auth/domain/entity"
	platformhandler "shop_backend/internal/platform/http/handler"
	"shop_backend/internal/platform/http/middleware"
	"shop_backend/internal/platform/http/respond"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/shared/ratelimiter"
)

// Options are the cross-cutting settings of the engine.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	ServiceName    string
	// ExposeErrors echoes internal error text to clients. Development only.
	ExposeErrors bool
	// AuthLimiter throttles /api/auth; nil disables throttling.
	AuthLimiter *ratelimiter.RateLimiter
	Ready       *platformhandler.ReadyHandler
}

func NewRouter(h di.Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(middleware.RequestLogger(nil))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	r.Use(respond.ExposeInternalErrors(opts.ExposeErrors))

	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	if opts.Ready != nil {
		r.GET("/readyz", opts.Ready.Ready)
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter.Middleware())
	}
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	authed := jwtmw.AuthRequired(opts.JWTSecret)
	staff := jwtmw.RequireRoles(string(entity.RoleAdmin), string(entity.RoleOperative))

	categories := api.Group("/categories")
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.Get)
	categories.POST("", authed, staff, h.Category.Create)
	categories.PUT("/:id", authed, staff, h.Category.Update)
	categories.DELETE("/:id", authed, staff, h.Category.Delete)

	products := api.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/offers", h.Product.Offers)
	products.GET("/search", h.Product.Search)
	products.GET("/category/:name", h.Product.ByCategory)
	products.GET("/latest/new", h.Product.Latest)
	products.GET("/:id", h.Product.Get)
	products.POST("", authed, staff, h.Product.Create)
	products.PUT("/:id", authed, staff, h.Product.Update)
	products.DELETE("/:id", authed, staff, h.Product.Delete)

	cart := api.Group("/cart", authed)
	cart.GET("", h.Cart.Get)
	cart.POST("/merge", h.Cart.Merge)
	cart.POST("/add", h.Cart.Add)
	cart.POST("/update", h.Cart.Replace)
	cart.DELETE("/remove/:productId", h.Cart.Remove)
	cart.DELETE("/clear", h.Cart.Clear)
	cart.POST("/checkout", h.Cart.Checkout)

	admin := api.Group("/admin", authed, jwtmw.RequireRoles(string(entity.RoleAdmin)))
	admin.POST("/operatives", h.UserAdmin.CreateOperative)
	admin.GET("/operatives", h.UserAdmin.ListOperatives)
	admin.DELETE("/operatives/:id", h.UserAdmin.DeleteOperative)
	admin.GET("/users/:id", h.UserAdmin.GetUser)
	admin.PUT("/users/:id", h.UserAdmin.UpdateUser)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
