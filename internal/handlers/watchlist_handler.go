package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/models"
	"github.com/ternarybob/sticker/internal/services/watchlist"
)

// WatchlistHandler handles watchlist, dashboard and settings requests
type WatchlistHandler struct {
	service WatchlistService
	logger  arbor.ILogger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(service WatchlistService, logger arbor.ILogger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		logger:  logger,
	}
}

// ListHandler handles GET /api/watchlist
func (h *WatchlistHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err, "list watchlist")
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

// CreateHandler handles POST /api/watchlist
func (h *WatchlistHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in watchlist.EntryInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	entry, err := h.service.Create(r.Context(), in)
	if err != nil {
		WriteServiceError(w, h.logger, err, "create watchlist entry")
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// SavePaybackHandler handles POST /api/watchlist/payback
func (h *WatchlistHandler) SavePaybackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in watchlist.PaybackSave
	if !DecodeJSON(w, r, &in) {
		return
	}

	entry, err := h.service.AddFromPayback(r.Context(), in)
	if err != nil {
		WriteServiceError(w, h.logger, err, "save payback calculation")
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// GetHandler handles GET /api/watchlist/{id}
func (h *WatchlistHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/watchlist/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Entry ID is required")
		return
	}

	row, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err, "get watchlist entry")
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

// UpdateHandler handles PUT /api/watchlist/{id}
func (h *WatchlistHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/watchlist/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Entry ID is required")
		return
	}

	var in watchlist.EntryInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	entry, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		WriteServiceError(w, h.logger, err, "update watchlist entry")
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// DeleteHandler handles DELETE /api/watchlist/{id}
func (h *WatchlistHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/watchlist/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Entry ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err, "delete watchlist entry")
		return
	}
	WriteSuccess(w, "Watchlist entry deleted")
}

// RefreshHandler handles POST /api/watchlist/refresh
func (h *WatchlistHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	report, err := h.service.Refresh(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err, "refresh watchlist")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// DashboardHandler handles GET /api/dashboard
func (h *WatchlistHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err, "load dashboard")
		return
	}
	WriteJSON(w, http.StatusOK, d)
}

// GetSettingsHandler handles GET /api/settings
func (h *WatchlistHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err, "load settings")
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpdateSettingsHandler handles PUT /api/settings
func (h *WatchlistHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if !DecodeJSON(w, r, &settings) {
		return
	}

	saved, err := h.service.SaveSettings(r.Context(), &settings)
	if err != nil {
		WriteServiceError(w, h.logger, err, "save settings")
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}
