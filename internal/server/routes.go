package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Market data
	mux.HandleFunc("/api/stock/", s.app.StockHandler.QuoteHandler)     // GET /{ticker}
	mux.HandleFunc("/api/history/", s.app.StockHandler.HistoryHandler) // GET /{ticker}

	// API routes - Valuation calculators
	mux.HandleFunc("/api/valuation", s.app.ValuationHandler.ValuationHandler) // POST
	mux.HandleFunc("/api/payback", s.app.ValuationHandler.PaybackHandler)     // POST

	// API routes - Watchlist
	mux.HandleFunc("/api/watchlist", s.handleWatchlistRoute)                            // GET (list), POST (create)
	mux.HandleFunc("/api/watchlist/refresh", s.app.WatchlistHandler.RefreshHandler)     // POST
	mux.HandleFunc("/api/watchlist/payback", s.app.WatchlistHandler.SavePaybackHandler) // POST
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistItemRoute)                       // GET/PUT/DELETE /{id}
	mux.HandleFunc("/api/dashboard", s.app.WatchlistHandler.DashboardHandler)
	mux.HandleFunc("/api/settings", s.handleSettingsRoute) // GET, PUT

	// API routes - Business analysis
	mux.HandleFunc("/api/analysis/", s.app.AnalysisHandler.AnalyzeHandler) // GET /{ticker}

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/jobs", s.app.SchedulerHandler.JobsHandler)
	mux.HandleFunc("/api/scheduler/jobs/", s.app.SchedulerHandler.TriggerHandler) // POST /{name}/trigger

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleWatchlistRoute routes /api/watchlist requests (list and create)
func (s *Server) handleWatchlistRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r,
		s.app.WatchlistHandler.ListHandler,
		s.app.WatchlistHandler.CreateHandler,
	)
}

// handleWatchlistItemRoute routes /api/watchlist/{id} requests
func (s *Server) handleWatchlistItemRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r,
		s.app.WatchlistHandler.GetHandler,
		s.app.WatchlistHandler.UpdateHandler,
		s.app.WatchlistHandler.DeleteHandler,
	)
}

// handleSettingsRoute routes /api/settings requests
func (s *Server) handleSettingsRoute(w http.ResponseWriter, r *http.Request) {
	RouteCRUD(w, r,
		s.app.WatchlistHandler.GetSettingsHandler,
		nil,
		s.app.WatchlistHandler.UpdateSettingsHandler,
		nil,
	)
}
