package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ifinance-app/ifinance/internal/accounts"
	"github.com/ifinance-app/ifinance/internal/chart"
	"github.com/ifinance-app/ifinance/internal/posting"
	"github.com/ifinance-app/ifinance/internal/reports"
	"github.com/ifinance-app/ifinance/internal/users"
)

// RouterParams collects the module handlers mounted by the router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	ChartHandler    *chart.Handler
	AccountsHandler *accounts.Handler
	PostingHandler  *posting.Handler
	ReportsHandler  *reports.Handler
	UsersHandler    *users.Handler
}

// NewRouter constructs the chi.Router with the ledger defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identityMiddleware(params.Logger))
		params.ChartHandler.MountRoutes(r)
		params.AccountsHandler.MountRoutes(r)
		params.PostingHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
	})

	return r
}
