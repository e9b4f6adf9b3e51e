package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/job-portal/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
	Root(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type JobsHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	GetApplicants(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Jobs   JobsHandler

	// APIPrefix mounts the user routes, e.g. "/user". Empty mounts at root.
	APIPrefix   string
	CORSOrigins []string

	AuthMW  func(http.Handler) http.Handler
	UserMW  func(http.Handler) http.Handler
	AdminMW func(http.Handler) http.Handler

	// Optional per-route limiters; nil disables limiting on that route.
	RegisterRL func(http.Handler) http.Handler
	LoginRL    func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Jobs == nil {
		return nil, fmt.Errorf("nil Jobs handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.UserMW == nil {
		return nil, fmt.Errorf("nil User middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders: []string{middleware.HeaderXRequestID, "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/", deps.Health.Root)
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		// --- Public ---
		r.With(orNoop(deps.RegisterRL)).Post("/register", deps.Auth.Register)
		r.With(orNoop(deps.LoginRL)).Post("/login", deps.Auth.Login)

		// --- Any authenticated caller ---
		r.With(deps.AuthMW).Get("/profile", deps.Auth.Profile)

		// --- Applicants ---
		r.With(deps.AuthMW, deps.UserMW).Post("/apply_job", deps.Jobs.Apply)

		// --- Admin ---
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.AdminMW)

			r.Get("/getApplicants", deps.Jobs.GetApplicants)
			r.Patch("/accepted/{id}", deps.Jobs.Accept)
			r.Patch("/rejected/{id}", deps.Jobs.Reject)
			r.Get("/getUsers", deps.Auth.ListUsers)
		})
	}

	if deps.APIPrefix == "" {
		r.Group(routes)
	} else {
		r.Route(deps.APIPrefix, routes)
	}

	return r, nil
}

func orNoop(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
