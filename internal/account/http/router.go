package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stackhaven/accounts/internal/account/service"
	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stackhaven/accounts/pkg/httpx"
	"github.com/stackhaven/accounts/pkg/slogx"

	_ "github.com/stackhaven/accounts/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService      *service.UserService
	AuthService      *service.AuthService
	TokenService     *service.TokenService
	BootstrapService *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Account Service API
//	@version		0.1.0
//	@description	Minimal user-account service: account creation, credential authentication, opaque bearer tokens, and self-service profile management.
//
//	@contact.name				Stackhaven
//	@contact.url				https://github.com/stackhaven/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque bearer token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	createHandler := &CreateUserHandler{UserService: r.UserService}
	r.Mux.Handle("POST /user/create", createHandler)

	tokenHandler := &TokenHandler{
		AuthService:  r.AuthService,
		TokenService: r.TokenService,
	}
	r.Mux.Handle("POST /user/token", tokenHandler)

	// The method patterns make the mux answer 405 for anything else on
	// /user/me (e.g. POST).
	meHandler := &MeHandler{UserService: r.UserService}
	authn := httpx.AuthnMiddleware(r.TokenService)

	r.Mux.Handle("GET /user/me",
		httpx.Chain(http.HandlerFunc(meHandler.HandleGet), authn))
	r.Mux.Handle("PATCH /user/me",
		httpx.Chain(http.HandlerFunc(meHandler.HandleUpdate), authn))
	r.Mux.Handle("PUT /user/me",
		httpx.Chain(http.HandlerFunc(meHandler.HandleUpdate), authn))
}

func (r *Router) registerBootstrap() {
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /bootstrap", bootstrapHandler)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
