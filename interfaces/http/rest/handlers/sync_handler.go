package handlers

import (
	"encoding/json"
	"net/http"

	"threatsync/application/services"

	"go.uber.org/zap"
)

// SyncHandler handles sync-status HTTP requests
type SyncHandler struct {
	sync   *services.SyncService
	logger *zap.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *services.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger,
	}
}

// GetStatus handles GET /sync/status
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.sync.Status())
}

// respondJSON writes a JSON response
func (h *SyncHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
