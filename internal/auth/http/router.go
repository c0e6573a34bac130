package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	SessionService   *service.SessionService
	UserService      *service.UserService
	BootstrapService *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerSystem()
}

func (r *Router) registerSession() {
	// POST /login - strict rate limit by IP + username so one client cannot
	// lock out a shared terminal, and one username cannot be hammered from
	// one address.
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	h := &SessionHandler{
		SessionService: r.SessionService,
		UserService:    r.UserService,
	}

	// The session endpoints stay reachable for accounts that still owe a
	// password rotation, so the gate is not applied here.
	authed := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			SessionMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/session", authed(h.HandleGet))
	r.Mux.Handle("POST /v1/logout", authed(h.HandleLogout))
	r.Mux.Handle("POST /v1/session/password", authed(h.HandleChangePassword))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Every user admin route requires a session and a rotated password.
	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			SessionMiddleware(r.SessionService),
			PasswordChangeGate(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", secured(h.HandleList))
	r.Mux.Handle("POST /v1/users", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/users/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/users/{id}", secured(h.HandlePatch))
	r.Mux.Handle("DELETE /v1/users/{id}", secured(h.HandleDelete))
	r.Mux.Handle("POST /v1/users/{id}/password", secured(h.HandleResetPassword))
	r.Mux.Handle("PUT /v1/users/{id}/permissions", secured(h.HandlePutPermissions))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
