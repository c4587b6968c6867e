// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/config"
	"github.com/pokemart/storefront/internal/domain/cart"
	"github.com/pokemart/storefront/internal/domain/catalog"
	"github.com/pokemart/storefront/internal/domain/checkout"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/pokemart/storefront/internal/domain/payment"
	"github.com/pokemart/storefront/internal/interfaces/http/handlers"
	"github.com/pokemart/storefront/internal/interfaces/http/middleware"
	"github.com/pokemart/storefront/internal/pkg/auth"
	"github.com/pokemart/storefront/internal/pkg/email"
	"github.com/pokemart/storefront/internal/pkg/pdf"
	"github.com/pokemart/storefront/internal/pkg/session"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes wires services, handlers and routes for the API
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	// Services
	sessions := session.NewRedisStore(redisClient, cfg.Session.TTL)
	catalogService := catalog.NewService(db)
	identityService := identity.NewService(db)
	cartService := cart.NewService(db, catalogService, sessions)
	orderService := order.NewService(db)

	stripeClient := payment.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.APIBaseURL, cfg.Stripe.RequestTimeout, logger)
	checkoutService := checkout.NewService(cfg, cartService, orderService, stripeClient, logger)

	emailService := email.NewService(cfg, identityService, logger)
	processor := payment.NewProcessor(orderService, cartService, emailService, logger, cfg.Stripe.WebhookSecret, cfg.Stripe.SignatureTolerance)

	pdfGenerator := pdf.NewGenerator(cfg.App.Name)

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, identityService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cartService, identityService)
	orderHandler := handlers.NewOrderHandler(orderService, identityService, pdfGenerator)
	webhookHandler := handlers.NewWebhookHandler(processor, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Catalog browsing is anonymous
	pokemon := rg.Group("/pokemon")
	{
		pokemon.GET("", catalogHandler.ListPokemon)
		pokemon.GET("/:id", catalogHandler.GetPokemon)
	}

	// Cart and checkout serve guests and users alike; the session cookie
	// carries the guest identity, the bearer token the user identity
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.Session(cfg), middleware.OptionalAuth(jwtManager))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:pokemonId", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:pokemonId", cartHandler.RemoveItem)
		cartGroup.POST("/merge", middleware.RequireAuth(jwtManager), cartHandler.MergeCart)
	}

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.Session(cfg), middleware.OptionalAuth(jwtManager))
	{
		checkoutGroup.POST("", checkoutHandler.BeginCheckout)
	}

	orders := rg.Group("/orders")
	{
		// The success page only holds the session ID, no token yet
		orders.GET("/session/:sessionId", orderHandler.GetOrderBySession)

		authed := orders.Group("")
		authed.Use(middleware.RequireAuth(jwtManager))
		{
			authed.GET("", orderHandler.ListOrders)
			authed.GET("/:id", orderHandler.GetOrder)
			authed.GET("/:id/receipt", orderHandler.GetReceipt)
		}
	}

	// Authenticated by signature, not by token
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/stripe", webhookHandler.HandleStripe)
	}
}
