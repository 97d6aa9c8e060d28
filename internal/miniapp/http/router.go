package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"

	_ "github.com/Dev-JBA/JBAAI-WEB-VIEW/api/miniapp" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tab          httpx.Middleware
	signer       jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	views        *Views

	store        store.Store
	Sessions     *session.Store
	Verification *service.VerificationService
	Catalog      *service.CatalogService
	Payments     *service.PaymentService

	// LoginURL is the external login entry point of the login-required view.
	LoginURL string

	// Grace is how long guarded pages wait for a query token exchange.
	Grace time.Duration

	// Closing is closed when the server starts shutting down.
	Closing <-chan struct{}
}

func NewRouter(
	tabCfg httpx.TabConfig,
	buildVersion string,
	st store.Store,
	views *Views,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tab:          httpx.TabMiddleware(tabCfg),
		signer:       tabCfg.Signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		views:        views,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerSession()
	r.registerCatalog()
	r.registerPayments()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			JBA AI Mini-App Web API
//	@version		0.1.0
//	@description	Backend-for-frontend of the JBA AI mini-app running inside the MB Bank webview.
//	@description
//	@description	Every browser tab is identified by the miniapp_tab cookie. Login tokens handed over by the banking app
//	@description	are exchanged for a session at most once per tab, and the session never outlives the tab.
//
//	@contact.name	JBA AI Team
//	@contact.url	https://github.com/Dev-JBA/JBAAI-WEB-VIEW
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	h := &PagesHandler{
		Verification: r.Verification,
		Sessions:     r.Sessions,
		Catalog:      r.Catalog,
		Payments:     r.Payments,
		Views:        r.views,
		LoginURL:     r.LoginURL,
	}
	guard := &Guard{
		Verification: r.Verification,
		Views:        r.views,
		Grace:        r.Grace,
	}

	// Public pages
	page := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.SecurityHeaders,
			httpx.RateLimitByIP(httpx.PageLimit),
			r.tab,
		)
	}

	// Protected pages go through the guard after the tab is known
	protected := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.SecurityHeaders,
			httpx.RateLimitByIP(httpx.PageLimit),
			r.tab,
			guard.Require,
		)
	}

	r.Mux.Handle("GET /{$}", page(h.HandleHome))
	r.Mux.Handle("GET /require-login", page(h.HandleRequireLogin))
	r.Mux.Handle("GET /instruction", protected(h.HandleInstruction))
	r.Mux.Handle("GET /payment", protected(h.HandlePayment))
	r.Mux.Handle("GET /mbapp/result", protected(h.HandleResult))

	r.Mux.Handle("GET /", page(h.HandleNotFound))
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		Verification: r.Verification,
		Sessions:     r.Sessions,
		Payments:     r.Payments,
		Closing:      r.Closing,
	}

	// POST /v1/session/verify - strict per tab, every call may start an exchange
	r.Mux.Handle("POST /v1/session/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			r.tab,
			httpx.RateLimitByTab(httpx.VerifyLimit),
		),
	)

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.tab,
			httpx.RateLimitByTab(httpx.APILimit),
		),
	)
	r.Mux.Handle("POST /v1/session/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.tab,
			httpx.RateLimitByTab(httpx.APILimit),
		),
	)
	r.Mux.Handle("GET /v1/session/events",
		httpx.Chain(http.HandlerFunc(h.HandleEvents),
			r.tab,
			httpx.RateLimitByTab(httpx.APILimit),
		),
	)
}

func (r *Router) registerCatalog() {
	h := &CatalogHandler{Catalog: r.Catalog}

	// GET /v1/packages - public, cached
	r.Mux.Handle("GET /v1/packages",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.APILimit),
		),
	)
}

func (r *Router) registerPayments() {
	h := &PaymentsHandler{Payments: r.Payments}

	// Creating and handing off transactions hits the backend - strict per tab
	r.Mux.Handle("POST /v1/payments",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.tab,
			httpx.RateLimitByTab(httpx.PaymentLimit),
		),
	)
	r.Mux.Handle("POST /v1/payments/{id}/handoff",
		httpx.Chain(http.HandlerFunc(h.HandleHandoff),
			r.tab,
			httpx.RateLimitByTab(httpx.PaymentLimit),
		),
	)
	r.Mux.Handle("GET /v1/payments/last",
		httpx.Chain(http.HandlerFunc(h.HandleLast),
			r.tab,
			httpx.RateLimitByTab(httpx.APILimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - no tab cookie, monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PageLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.PageLimit),
		),
	)
}
