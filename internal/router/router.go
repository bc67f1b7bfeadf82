package router

import (
	"time"

	"agriconnect-api/internal/handler"
	"agriconnect-api/internal/middleware"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"
	"agriconnect-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services groups everything the HTTP layer calls into.
type Services struct {
	Auth    service.AuthService
	Users   service.UserService
	Catalog service.CatalogService
	Orders  service.OrderService
	Weather service.WeatherService
	Content service.ContentService
	AI      service.AIService
}

type Options struct {
	AppName   string
	AskAIRate int // requests per minute per client IP, 0 disables the limit
	AccessLog bool
}

// New builds the Fiber app with every route mounted under /api/v1.
func New(svc Services, hub *ws.Hub, opts Options) *fiber.App {
	if opts.AppName == "" {
		opts.AppName = "AgriConnect API v1.0"
	}

	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	invHandler := handler.NewInventoryHandler(svc.Catalog, svc.Orders)
	contentHandler := handler.NewContentHandler(svc.Weather, svc.Content, svc.AI)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": hub.ClientCount()})
	})

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/signup", authHandler.Signup)

	api.Get("/weather-reports", contentHandler.GetWeatherReports)
	api.Post("/weather-reports/fetch", contentHandler.FetchWeather)
	api.Get("/updates", contentHandler.GetUpdates)

	askHandlers := []fiber.Handler{}
	if opts.AskAIRate > 0 {
		askHandlers = append(askHandlers, limiter.New(limiter.Config{
			Max:        opts.AskAIRate,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many questions, try again in a minute"})
			},
		}))
	}
	askHandlers = append(askHandlers, contentHandler.AskAI)
	api.Post("/ask-ai", askHandlers...)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(svc.Auth))

	protected.Get("/users/dashboard", userHandler.Dashboard)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Put("/users/:id", userHandler.UpdateUser)

	protected.Get("/products", invHandler.GetProducts)
	protected.Post("/products", middleware.RequireCapability(model.CapabilityFarmer), invHandler.CreateProduct)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Put("/products/:id", middleware.RequireCapability(model.CapabilityFarmer), invHandler.UpdateProduct)
	protected.Patch("/products/:id", middleware.RequireCapability(model.CapabilityFarmer), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireCapability(model.CapabilityFarmer), invHandler.DeleteProduct)

	protected.Get("/orders", invHandler.GetOrders)
	protected.Post("/orders", invHandler.CreateOrder)
	protected.Get("/orders/:id", invHandler.GetOrder)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}
