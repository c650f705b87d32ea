// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/bpnlt/radioplan/app/dto"
	"github.com/bpnlt/radioplan/app/handlers"
	"github.com/bpnlt/radioplan/app/middleware"
	"github.com/bpnlt/radioplan/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app             *fiber.App
	catalogHandler  handlers.CatalogHandlerInterface
	planHandler     handlers.PlanHandlerInterface
	spotHandler     handlers.SpotHandlerInterface
	campaignHandler handlers.CampaignHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	catalogHandler handlers.CatalogHandlerInterface,
	planHandler handlers.PlanHandlerInterface,
	spotHandler handlers.SpotHandlerInterface,
	campaignHandler handlers.CampaignHandlerInterface,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RadioPlan API",
		ServerHeader: "RadioPlan",
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024, // 16MB, spreadsheet uploads included
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:             app,
		catalogHandler:  catalogHandler,
		planHandler:     planHandler,
		spotHandler:     spotHandler,
		campaignHandler: campaignHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint (outside the API group, no rate limiting)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Rate catalog endpoints
	groups := api.Group("/groups")
	groups.Get("/", r.catalogHandler.ListGroups)
	groups.Post("/", r.catalogHandler.CreateGroup)
	groups.Delete("/:id", r.catalogHandler.DeleteGroup)

	stations := api.Group("/stations")
	stations.Get("/", r.catalogHandler.ListStations)
	stations.Post("/", r.catalogHandler.CreateStation)
	stations.Delete("/:id", r.catalogHandler.DeleteStation)
	stations.Get("/:id/prices", r.catalogHandler.ListSlotPrices)
	stations.Put("/:id/prices", r.catalogHandler.UpsertSlotPrice)
	stations.Get("/:id/zone-prices", r.catalogHandler.ListZonePrices)
	stations.Put("/:id/zone-prices", r.catalogHandler.UpsertZonePrice)
	stations.Get("/:id/ratings", r.catalogHandler.ListRatings)
	stations.Put("/:id/ratings", r.catalogHandler.UpsertRating)
	stations.Get("/:id/price", r.catalogHandler.ProbePrice)
	stations.Get("/:id/seasonal-index/:month", r.catalogHandler.ProbeSeasonalIndex)

	seasonal := api.Group("/seasonal-indices")
	seasonal.Get("/", r.catalogHandler.ListSeasonalIndices)
	seasonal.Put("/", r.catalogHandler.SetSeasonalIndex)

	// Spreadsheet imports with a stricter rate limit, uploads are expensive
	imports := api.Group("/import")
	imports.Use(limiter.New(limiter.Config{
		Max:        20,              // Maximum 20 uploads
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	imports.Post("/prices", r.catalogHandler.ImportPrices)
	imports.Post("/ratings", r.catalogHandler.ImportRatings)

	// Plan endpoints
	plans := api.Group("/plans")
	plans.Get("/", r.planHandler.ListPlans)
	plans.Post("/", r.planHandler.CreatePlan)
	plans.Get("/:id", r.planHandler.GetPlan)
	plans.Delete("/:id", r.planHandler.DeletePlan)
	plans.Patch("/:id/discounts", r.planHandler.UpdateDiscounts)
	plans.Get("/:id/captured-data", r.planHandler.ListCapturedData)
	plans.Patch("/:id/captured-index", r.planHandler.UpdateCapturedIndex)
	plans.Get("/:id/aggregate", r.planHandler.AggregatePlan)
	plans.Get("/:id/export", r.planHandler.ExportPlan)

	// Spot placement endpoints
	plans.Get("/:id/spots", r.spotHandler.ListSpots)
	plans.Put("/:id/spots", r.spotHandler.UpsertSpot)

	// Campaign metadata proxied from the projects CRM
	api.Get("/campaigns", r.campaignHandler.ListCampaigns)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://radioplan.bpnlt.com",
			"https://api.radioplan.bpnlt.com",
			"http://localhost:3000",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
			"X-API-Key",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for spreadsheet downloads, xlsx is already deflated
			return contains(c.Path(), "/export")
		},
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks and metrics scrapes in production
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "RadioPlan")

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "radioplan-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
