package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/straytracker/stray-tracker-backend/internal/config"
	"github.com/straytracker/stray-tracker-backend/internal/handlers"
	"github.com/straytracker/stray-tracker-backend/internal/middleware"
	"github.com/straytracker/stray-tracker-backend/internal/models"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	strayHandler *handlers.StrayHandler,
	sightingHandler *handlers.SightingHandler,
	uploadHandler *handlers.UploadHandler,
	communityHandler *handlers.CommunityHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Everything below requires a session with at least the user tier.
	user := api.Group("", middleware.JWTProtected(cfg), middleware.RequireRole(db, cfg, models.RoleUser))

	// Strays
	user.Get("/strays", strayHandler.List)
	user.Get("/strays/nearby", strayHandler.Nearby)
	user.Get("/strays/:id", strayHandler.Get)

	// Sightings
	user.Post("/sightings", sightingHandler.Create)
	user.Get("/sightings/nearby", sightingHandler.Nearby)
	user.Delete("/sightings/:id", sightingHandler.Delete)

	// Photo staging
	user.Post("/uploads/session", uploadHandler.NewSession)
	user.Post("/uploads", uploadHandler.Stage)

	// Community
	user.Post("/posts", communityHandler.CreatePost)
	user.Get("/posts", communityHandler.ListPosts)
	user.Get("/posts/:id", communityHandler.GetPost)
	user.Delete("/posts/:id", communityHandler.DeletePost)
	user.Post("/posts/:id/comments", communityHandler.AddComment)
	user.Delete("/comments/:id", communityHandler.DeleteComment)
	user.Post("/posts/:id/reactions", communityHandler.ToggleReaction)
	user.Post("/strays/:id/names", communityHandler.SuggestName)
	user.Get("/strays/:id/names", communityHandler.ListNameSuggestions)
	user.Post("/names/:suggestion_id/vote", communityHandler.VoteName)
	user.Post("/strays/:id/bounties", communityHandler.CreateBounty)
	user.Get("/strays/:id/bounties", communityHandler.ListBounties)
	user.Put("/bounties/:bounty_id", communityHandler.CloseBounty)

	// Moderator tier
	moderator := api.Group("", middleware.JWTProtected(cfg), middleware.RequireRole(db, cfg, models.RoleModerator))
	moderator.Put("/sightings/:id", sightingHandler.Update)
	moderator.Put("/strays/:id", strayHandler.Update)

	// Admin tier
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.RequireRole(db, cfg, models.RoleAdmin))
	admin.Post("/staging/cleanup", uploadHandler.Cleanup)
}
