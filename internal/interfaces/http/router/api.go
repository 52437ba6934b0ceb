package router

import (
	"github.com/filterdesk/backend/internal/interfaces/http/handler"
	"github.com/filterdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Region    *handler.RegionHandler
	Client    *handler.ClientHandler
	Product   *handler.ProductHandler
	Discount  *handler.DiscountHandler
	Pricing   *handler.PricingHandler
	Order     *handler.OrderHandler
	Import    *handler.ImportHandler
	Dashboard *handler.DashboardHandler
}

// Guards are the access middleware of the API
type Guards struct {
	// Session authenticates the session cookie
	Session gin.HandlerFunc
	// AuthLimit throttles credential checks; nil disables it
	AuthLimit gin.HandlerFunc
}

// RegisterAPI registers the health endpoint, the Swagger UI and every /api/v1
// route.
// Reads are open to any signed-in user; catalog, discount, region, user and
// import-history writes require an administrator. Row-level scoping of
// representatives happens in the services.
func RegisterAPI(r *Router, h Handlers, g Guards) {
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	spans := middleware.SpanAttributes()
	authed := chain(g.Session, spans)
	admin := middleware.RequireAdmin()

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", chain(g.AuthLimit, h.Auth.Login)...)
	authRoutes.POST("/register", chain(g.AuthLimit, h.Auth.Register)...)
	authRoutes.POST("/logout", chain(g.Session, spans, h.Auth.Logout)...)
	authRoutes.GET("/me", chain(g.Session, spans, h.Auth.Me)...)
	authRoutes.PUT("/password", chain(g.Session, spans, g.AuthLimit, h.Auth.ChangePassword)...)

	userRoutes := NewDomainGroup("users", "/users").Use(authed...).Use(admin)
	userRoutes.GET("", h.User.List)
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("/:id", h.User.GetByID)
	userRoutes.PUT("/:id", h.User.Update)
	userRoutes.POST("/:id/approve", h.User.Approve)
	userRoutes.POST("/:id/activate", h.User.Activate)
	userRoutes.POST("/:id/deactivate", h.User.Deactivate)

	regionRoutes := NewDomainGroup("regions", "/regions").Use(authed...)
	regionRoutes.GET("", h.Region.List)
	regionRoutes.POST("", admin, h.Region.Create)
	regionRoutes.GET("/:id", h.Region.GetByID)
	regionRoutes.PUT("/:id", admin, h.Region.Update)
	regionRoutes.POST("/:id/activate", admin, h.Region.Activate)
	regionRoutes.POST("/:id/deactivate", admin, h.Region.Deactivate)

	clientRoutes := NewDomainGroup("clients", "/clients").Use(authed...)
	clientRoutes.GET("", h.Client.List)
	clientRoutes.POST("", h.Client.Create)
	clientRoutes.GET("/stats", h.Client.Stats)
	clientRoutes.GET("/:id", h.Client.GetByID)
	clientRoutes.PUT("/:id", h.Client.Update)
	clientRoutes.POST("/:id/activate", h.Client.Activate)
	clientRoutes.POST("/:id/deactivate", h.Client.Deactivate)
	clientRoutes.GET("/:id/history", h.Client.History)
	clientRoutes.POST("/:id/history", h.Client.AddNote)

	productRoutes := NewDomainGroup("products", "/products").Use(authed...)
	productRoutes.GET("", h.Product.List)
	productRoutes.POST("", admin, h.Product.Create)
	productRoutes.GET("/brands", h.Product.Brands)
	productRoutes.GET("/export.xlsx", h.Product.Export)
	productRoutes.GET("/:id", h.Product.GetByID)
	productRoutes.PUT("/:id", admin, h.Product.Update)
	productRoutes.POST("/:id/activate", admin, h.Product.Activate)
	productRoutes.POST("/:id/deactivate", admin, h.Product.Deactivate)

	discountRoutes := NewDomainGroup("discounts", "/discounts").Use(authed...)
	discountRoutes.GET("", h.Discount.List)
	discountRoutes.POST("", admin, h.Discount.Create)
	discountRoutes.GET("/:id", h.Discount.GetByID)
	discountRoutes.PUT("/:id", admin, h.Discount.Update)
	discountRoutes.POST("/:id/activate", admin, h.Discount.Activate)
	discountRoutes.POST("/:id/deactivate", admin, h.Discount.Deactivate)

	pricingRoutes := NewDomainGroup("pricing", "/pricing").Use(authed...)
	pricingRoutes.POST("/quote", h.Pricing.Quote)

	orderRoutes := NewDomainGroup("orders", "/orders").Use(authed...)
	orderRoutes.GET("", h.Order.List)
	orderRoutes.POST("", h.Order.Create)
	orderRoutes.GET("/export.xlsx", h.Order.Export)
	orderRoutes.GET("/:id", h.Order.GetByID)
	orderRoutes.PUT("/:id", h.Order.Update)
	orderRoutes.DELETE("/:id", h.Order.Delete)
	orderRoutes.POST("/:id/items", h.Order.AddItem)
	orderRoutes.PUT("/:id/items/:itemId", h.Order.UpdateItem)
	orderRoutes.DELETE("/:id/items/:itemId", h.Order.RemoveItem)
	orderRoutes.POST("/:id/confirm", h.Order.Confirm)
	orderRoutes.GET("/:id/summary", h.Order.Summary)
	orderRoutes.GET("/:id/print", h.Order.Print)
	orderRoutes.GET("/:id/pdf", h.Order.PDF)

	// :ref is the entity on preview and the session id on commit
	importRoutes := NewDomainGroup("imports", "/imports").Use(authed...)
	importRoutes.GET("/history", admin, h.Import.History)
	importRoutes.POST("/:ref/preview", h.Import.Preview)
	importRoutes.POST("/:ref/commit", h.Import.Commit)

	statsRoutes := NewDomainGroup("stats", "/stats").Use(authed...)
	statsRoutes.GET("/dashboard", h.Dashboard.Dashboard)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(regionRoutes).
		Register(clientRoutes).
		Register(productRoutes).
		Register(discountRoutes).
		Register(pricingRoutes).
		Register(orderRoutes).
		Register(importRoutes).
		Register(statsRoutes)
	r.Setup()
}

// chain drops nil middleware
func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
