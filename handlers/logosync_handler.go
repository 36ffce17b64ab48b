package handlers

import (
	"net/http"

	"github.com/corfutbolocanero/roster-service/services"
)

type LogoSyncHandler struct {
	logoSyncService services.LogoSyncService
}

func NewLogoSyncHandler(logoSyncService services.LogoSyncService) *LogoSyncHandler {
	return &LogoSyncHandler{logoSyncService: logoSyncService}
}

func (h *LogoSyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.logoSyncService.CheckStatus(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil)
}

func (h *LogoSyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	results, err := h.logoSyncService.Sync(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil)
}
