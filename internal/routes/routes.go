package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/config"
	"github.com/example/foodcourt/internal/handlers"
	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/orderstate"
	"github.com/example/foodcourt/internal/pricing"
	"github.com/example/foodcourt/internal/services/notify"
	"github.com/example/foodcourt/internal/services/payments"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := notify.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	refundGateway := payments.NewGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)

	cartService := pricing.NewCartService(db)
	statusService := orderstate.NewService(db, refundGateway, telegramService)
	checkoutService := orderstate.NewCheckoutService(db, cartService, telegramService,
		cfg.TaxRate, cfg.DeliveryFee)

	authHandler := handlers.NewAuthHandler(db, cfg)
	locationHandler := handlers.NewLocationHandler(db)
	cuisineHandler := handlers.NewCuisineHandler(db)
	restaurantHandler := handlers.NewRestaurantHandler(db)
	menuHandler := handlers.NewMenuHandler(db)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(db, checkoutService, statusService)
	favouriteHandler := handlers.NewFavouriteHandler(db)
	promotionHandler := handlers.NewPromotionHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	searchHandler := handlers.NewSearchHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	api.Get("/countries", locationHandler.ListCountries)
	api.Get("/cities", locationHandler.ListCities)
	api.Get("/malls", locationHandler.ListMalls)
	api.Get("/malls/:id", locationHandler.GetMall)

	api.Get("/cuisines", cuisineHandler.List)
	api.Get("/cuisines/:id", cuisineHandler.Get)

	api.Get("/restaurants", restaurantHandler.List)
	api.Get("/restaurants/:id", restaurantHandler.Get)
	api.Get("/restaurants/:restaurantId/menu-items", menuHandler.ListItems)
	api.Get("/menu-items/:id", menuHandler.GetItem)

	api.Get("/promotions", promotionHandler.ListActive)
	api.Get("/search", searchHandler.Search)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)

	protected.Get("/cart", cartHandler.Summary)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Patch("/cart/items/:id", cartHandler.UpdateItem)
	protected.Delete("/cart/items/:id", cartHandler.RemoveItem)
	protected.Delete("/cart", cartHandler.Clear)

	protected.Post("/cart/checkout", orderHandler.Checkout)
	protected.Get("/orders", orderHandler.ListMine)
	protected.Get("/orders/:id", orderHandler.GetMine)

	protected.Get("/favourites/restaurants", favouriteHandler.ListRestaurants)
	protected.Post("/favourites/restaurants/:restaurantId", favouriteHandler.AddRestaurant)
	protected.Delete("/favourites/restaurants/:restaurantId", favouriteHandler.RemoveRestaurant)
	protected.Get("/favourites/menu-items", favouriteHandler.ListMenuItems)
	protected.Post("/favourites/menu-items/:menuItemId", favouriteHandler.AddMenuItem)
	protected.Delete("/favourites/menu-items/:menuItemId", favouriteHandler.RemoveMenuItem)

	// Restaurant management (owner or admin; ownership checked per handler)
	manage := protected.Group("", middleware.RequireRole(models.RoleRestaurant, models.RoleAdmin))

	manage.Post("/restaurants", restaurantHandler.Create)
	manage.Put("/restaurants/:id", restaurantHandler.Update)
	manage.Patch("/restaurants/:id/hours", restaurantHandler.UpdateHours)
	manage.Delete("/restaurants/:id", restaurantHandler.Delete)

	manage.Post("/restaurants/:restaurantId/menu-items", menuHandler.CreateItem)
	manage.Put("/restaurants/:restaurantId/menu-items/:id", menuHandler.UpdateItem)
	manage.Delete("/restaurants/:restaurantId/menu-items/:id", menuHandler.DeleteItem)
	manage.Post("/restaurants/:restaurantId/menu-items/:id/variations", menuHandler.CreateVariation)
	manage.Delete("/restaurants/:restaurantId/menu-items/:id/variations/:variationId", menuHandler.DeleteVariation)
	manage.Post("/restaurants/:restaurantId/menu-items/:id/add-ons", menuHandler.CreateAddOn)
	manage.Delete("/restaurants/:restaurantId/menu-items/:id/add-ons/:addOnId", menuHandler.DeleteAddOn)

	manage.Post("/restaurants/:restaurantId/promotions", promotionHandler.Create)
	manage.Put("/restaurants/:restaurantId/promotions/:id", promotionHandler.Update)
	manage.Delete("/restaurants/:restaurantId/promotions/:id", promotionHandler.Delete)

	manage.Get("/restaurants/:restaurantId/orders", orderHandler.ListForRestaurant)
	manage.Get("/restaurants/:restaurantId/orders/:orderId", orderHandler.GetForRestaurant)
	manage.Patch("/restaurants/:restaurantId/orders/:orderId/status", orderHandler.UpdateStatus)
	manage.Patch("/restaurants/:restaurantId/orders/:orderId/payment-status", orderHandler.UpdatePaymentStatus)

	manage.Get("/restaurants/:restaurantId/analytics", analyticsHandler.RestaurantStats)

	// Admin-only routes
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))

	admin.Post("/countries", locationHandler.CreateCountry)
	admin.Post("/cities", locationHandler.CreateCity)
	admin.Post("/malls", locationHandler.CreateMall)
	admin.Put("/malls/:id", locationHandler.UpdateMall)
	admin.Delete("/malls/:id", locationHandler.DeleteMall)

	admin.Post("/cuisines", cuisineHandler.Create)
	admin.Put("/cuisines/:id", cuisineHandler.Update)
	admin.Delete("/cuisines/:id", cuisineHandler.Delete)

	admin.Get("/analytics", analyticsHandler.PlatformStats)
}
