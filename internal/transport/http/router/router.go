package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
	Root(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Verification
	VerifyEmailRequest(w http.ResponseWriter, r *http.Request)
	VerifyEmailConfirm(w http.ResponseWriter, r *http.Request)
	VerifyMobileRequest(w http.ResponseWriter, r *http.Request)
	VerifyMobileConfirm(w http.ResponseWriter, r *http.Request)
}

type CompanyHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
	UploadBanner(w http.ResponseWriter, r *http.Request)
}

type MediaHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	RequestIDMW Middleware
	MetricsMW   Middleware // optional

	Health  HealthHandler
	Auth    AuthHandler
	Company CompanyHandler
	Media   MediaHandler // optional; only set when media is served in-process

	AuthMW Middleware

	// Per-route limits. A nil entry leaves the route unlimited.
	RLRegister      Middleware
	RLLogin         Middleware
	RLVerifyRequest Middleware
	RLVerifyConfirm Middleware // runs after AuthMW so it can key on the caller

	// AuthGroupRL wraps the whole /api/auth group (IP fallback when Redis is absent).
	AuthGroupRL Middleware
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Company == nil {
		return nil, fmt.Errorf("nil Company handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
	}

	r.Get("/", deps.Health.Root)
	r.Get("/health", deps.Health.Health)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	if deps.Media != nil {
		r.Get("/media/*", deps.Media.Get)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.AuthGroupRL != nil {
				r.Use(deps.AuthGroupRL)
			}

			r.With(chain(deps.RLRegister)...).Post("/register", deps.Auth.Register)
			r.With(chain(deps.RLLogin)...).Post("/login", deps.Auth.Login)
			r.Get("/verify-email/{token}", deps.Auth.VerifyEmailConfirm)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)

				r.Get("/me", deps.Auth.Me)
				r.With(chain(deps.RLVerifyRequest)...).Post("/verify-email/request", deps.Auth.VerifyEmailRequest)
				r.With(chain(deps.RLVerifyRequest)...).Post("/verify-mobile/request", deps.Auth.VerifyMobileRequest)
				r.With(chain(deps.RLVerifyConfirm)...).Post("/verify-mobile", deps.Auth.VerifyMobileConfirm)
			})
		})

		r.Route("/company", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Post("/register", deps.Company.Register)
			r.Get("/profile", deps.Company.GetProfile)
			r.Put("/profile", deps.Company.UpdateProfile)
			r.Post("/upload-logo", deps.Company.UploadLogo)
			r.Post("/upload-banner", deps.Company.UploadBanner)
		})
	})

	return r, nil
}

// chain drops nil middlewares so optional limits can be passed straight to With.
func chain(mws ...Middleware) []Middleware {
	out := make([]Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
