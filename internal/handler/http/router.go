package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/learnhub/learnhub/internal/auth"
	"github.com/learnhub/learnhub/internal/service"
	"github.com/learnhub/learnhub/pkg/health"
	"github.com/learnhub/learnhub/pkg/middleware"
)

// Services bundles the service-layer dependencies of the router.
type Services struct {
	Auth       *service.AuthService
	User       *service.UserService
	Admin      *service.AdminService
	Course     *service.CourseService
	Enrollment *service.EnrollmentService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	services Services,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("learnhub"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("learnhub"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:  claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		}, nil
	}

	// Auth endpoints (public)
	authHandler := NewAuthHandler(services.Auth, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/sign-up", authHandler.SignUp)
			r.Post("/sign-in", authHandler.SignIn)
			r.Post("/admin/sign-in", authHandler.AdminSignIn)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/sign-out", authHandler.SignOut)
		})

		// Session registry projections (auth required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/sessions", authHandler.Sessions)
			r.Get("/sessions/count", authHandler.SessionCount)
		})
	})

	// User endpoints (auth required)
	userHandler := NewUserHandler(services.User, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	// Admin account endpoints, gated on the shared admin secret.
	adminHandler := NewAdminHandler(services.Admin, logger)
	r.Route("/api/v1/admins", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", adminHandler.Create)
		r.Get("/", adminHandler.List)
		r.Get("/{id}", adminHandler.Get)
		r.Delete("/{id}", adminHandler.Delete)
	})

	// Course catalog. Reads are open to any authenticated caller; writes
	// require an admin token.
	courseHandler := NewCourseHandler(services.Course, logger)
	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", courseHandler.List)
		r.Get("/{id}", courseHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/", courseHandler.Create)
			r.Put("/{id}", courseHandler.Update)
			r.Delete("/{id}", courseHandler.Delete)
		})
	})

	// Enrollment endpoints (auth required)
	enrollmentHandler := NewEnrollmentHandler(services.Enrollment, logger)
	r.Route("/api/v1/enrollments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/courses/{courseId}/users/{userId}", enrollmentHandler.Enroll)
		r.Delete("/courses/{courseId}/users/{userId}", enrollmentHandler.Unenroll)
		r.Get("/courses/{courseId}", enrollmentHandler.ListByCourse)
		r.Get("/users/{userId}", enrollmentHandler.ListByUser)
	})

	return r
}
