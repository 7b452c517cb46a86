package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/expoflow/exhibition-backend/internal/handler"    // import the handlers that implement business logic
	"github.com/expoflow/exhibition-backend/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// Protected group: every handler registered here runs the JWTAuth
	// middleware first.  Both roles may inspect their own identity.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ORGANIZER", "EXHIBITOR"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler exposes sanitized event and floor-plan
// data for guests.  The optional cache middleware is applied to these routes
// only; they are read-heavy and safe to cache briefly.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	// Expose list of published events
	e.GET("/v1/events", p.ListEvents, mws...)
	// Event details by id
	e.GET("/v1/events/:id", p.GetEvent, mws...)
	// Full floor plan of an event with per-stand availability
	e.GET("/v1/events/:id/stands", p.ListEventStands, mws...)
}

// RegisterAssignment registers the assignment engine endpoints.  Run,
// simulate and the review endpoints are restricted to organizers; the
// compatibility check and best-candidates ranking are available to any
// authenticated user so exhibitors can scout stands before requesting.
// The cooldown middleware guards only the real run: simulations are free.
func RegisterAssignment(e *echo.Echo, h *handler.AssignmentHandler, jwtSecret string, cooldown echo.MiddlewareFunc) {
	authed := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Endpoints open to both roles.
	both := authed.Group("", middleware.RequireRole("ORGANIZER", "EXHIBITOR"))
	both.GET("/compatibility", h.CheckCompatibility)
	both.GET("/events/:id/best-candidates", h.BestCandidates)

	// Organizer-only endpoints.
	org := authed.Group("", middleware.RequireRole("ORGANIZER"))
	if cooldown != nil {
		org.POST("/events/:id/assignments/run", h.RunAssignments, cooldown)
	} else {
		org.POST("/events/:id/assignments/run", h.RunAssignments)
	}
	org.POST("/events/:id/assignments/simulate", h.SimulateAssignments)
	org.GET("/events/:id/assignments/history", h.ListHistory)
	org.GET("/events/:id/assignments/conflicts", h.ListConflicts)
	org.GET("/events/:id/assignments/requests", h.ListEventRequests)
}
