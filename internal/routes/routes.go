package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Property *handlers.PropertyHandler
	Lease    *handlers.LeaseHandler
	Tenant   *handlers.TenantHandler
	Ticket   *handlers.TicketHandler
	Document *handlers.DocumentHandler
}

// Setup mounts the API under /api. limiterStorage may be nil, in which case
// rate limits are kept in process memory.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, limiterStorage fiber.Storage) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Storage:           limiterStorage,
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "auth:" + c.IP() },
		Storage:           limiterStorage,
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Get("/verify-email", h.Auth.VerifyEmail)
	auth.Post("/resend-verification", h.Auth.ResendVerification)
	auth.Get("/verify-landlord", h.Auth.VerifyLandlord)

	protected := middleware.JWTProtected(cfg)
	landlord := middleware.RequireRole(models.RoleLandlord)
	tenant := middleware.RequireRole(models.RoleTenant)

	api.Post("/auth/logout", protected, h.Auth.Logout)
	api.Get("/auth/me", protected, h.Auth.Me)

	properties := api.Group("/properties", protected, landlord)
	properties.Get("/", h.Property.List)
	properties.Post("/", h.Property.Create)
	properties.Get("/:id", h.Property.Get)
	properties.Put("/:id", h.Property.Update)
	properties.Delete("/:id", h.Property.Delete)

	leases := api.Group("/leases", protected, landlord)
	leases.Get("/", h.Lease.List)
	leases.Post("/", h.Lease.Create)
	leases.Post("/create", h.Lease.Create)
	leases.Get("/export", h.Lease.Export)
	leases.Get("/property/:id", h.Lease.ByProperty)
	leases.Put("/:id", h.Lease.Update)
	leases.Delete("/:id", h.Lease.Delete)
	leases.Post("/:id/assign", h.Lease.Assign)

	tenants := api.Group("/tenants", protected, landlord)
	tenants.Get("/", h.Tenant.List)
	tenants.Get("/leased", h.Tenant.Leased)
	tenants.Get("/stats", h.Tenant.Stats)
	tenants.Get("/search", h.Tenant.Search)
	tenants.Get("/:id", h.Tenant.Detail)

	self := api.Group("/tenant", protected, tenant)
	self.Get("/details", h.Tenant.Details)
	self.Get("/unit", h.Tenant.Unit)
	self.Get("/landlord", h.Tenant.Landlord)

	tickets := api.Group("/tickets", protected)
	tickets.Post("/", tenant, h.Ticket.Create)
	tickets.Get("/tenant", tenant, h.Ticket.ListForTenant)
	tickets.Get("/landlord", landlord, h.Ticket.ListForLandlord)
	tickets.Get("/:id", h.Ticket.Get)
	tickets.Post("/:id/respond", h.Ticket.Respond)

	api.Post("/upload", protected, h.Document.Upload)
	documents := api.Group("/documents", protected)
	documents.Get("/", h.Document.List)
	documents.Post("/", h.Document.Create)
	documents.Patch("/:id/archive", h.Document.Archive)
	documents.Delete("/:id", h.Document.Delete)
}
