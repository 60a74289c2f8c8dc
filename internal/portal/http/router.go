package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/jwtx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// Scopes recognized by the portal. Tokens are issued by the portal SSO;
// this service only verifies them.
const (
	ScopeAdminRead    = "admin:read"
	ScopeAdminWrite   = "admin:write"
	ScopePortalParent = "portal:parent"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	CodeService     *service.ParentCodeService
	LinkService     *service.LinkService
	CodeMailService *service.CodeMailService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerParent()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPublic() {
	// Both endpoints accept guessable secrets from anonymous callers, so
	// they take the strict per-IP limit.
	validateHandler := &CodeValidateHandler{CodeService: r.CodeService}
	r.Mux.Handle("POST /v1/codes/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	signupHandler := &SignupHandler{LinkService: r.LinkService}
	r.Mux.Handle("POST /v1/codes/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerParent() {
	h := &AddChildHandler{LinkService: r.LinkService}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(ScopePortalParent),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/parents/children", secured)
}

func (r *Router) registerAdmin() {
	codeHandler := &AdminCodeHandler{CodeService: r.CodeService}
	mailHandler := &CodeEmailHandler{CodeMailService: r.CodeMailService}

	r.Mux.Handle("GET /v1/students/{id}/code",
		httpx.Chain(http.HandlerFunc(codeHandler.HandleShow),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeAdminRead, ScopeAdminWrite),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PATCH /v1/students/{id}/code",
		httpx.Chain(http.HandlerFunc(codeHandler.HandleUpdate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeAdminWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/students/{id}/code/regenerate",
		httpx.Chain(http.HandlerFunc(codeHandler.HandleRegenerate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeAdminWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/students/{id}/code/send",
		httpx.Chain(http.HandlerFunc(mailHandler.HandleSendStudent),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeAdminWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/grades/{id}/codes/send",
		httpx.Chain(http.HandlerFunc(mailHandler.HandleSendGrade),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(ScopeAdminWrite),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
