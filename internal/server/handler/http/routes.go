// Package http provides HTTP routing and middleware configuration
// for the taskkeeper service.
package http

import (
	"net/http"

	"github.com/avelichko/taskkeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs and returns an HTTP handler that serves the
// task-management API. It applies CORS, content-type enforcement, and
// request logging globally, and bearer-token authentication to every
// route except registration, login, and the root endpoint.
//
// Routes:
//
//	GET    /                 → authHandler.Root
//	POST   /register         → authHandler.Register
//	POST   /login            → authHandler.Login (form-encoded)
//	GET    /profile          → authHandler.Profile          (bearer)
//	PUT    /profile          → authHandler.UpdateProfile    (bearer)
//	PUT    /update-password  → authHandler.UpdatePassword   (bearer)
//	POST   /tasks            → taskHandler.Create           (bearer)
//	GET    /tasks            → taskHandler.List             (bearer)
//	GET    /tasks/{id}       → taskHandler.Get              (bearer)
//	PUT    /tasks/{id}       → taskHandler.Update           (bearer)
//	DELETE /tasks/{id}       → taskHandler.Delete           (bearer)
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	auth func(http.Handler) http.Handler,
	corsOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Allow the configured browser origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Only allow JSON bodies, plus the form-encoded login
	r.Use(chiMiddleware.AllowContentType("application/json", "application/x-www-form-urlencoded"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Get("/", authHandler.Root)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/profile", authHandler.Profile)
		r.Put("/profile", authHandler.UpdateProfile)
		r.Put("/update-password", authHandler.UpdatePassword)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	return r
}
