package handlers

import (
	"errors"
	"net/http"

	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/realtime"
	"github.com/corfutbolocanero/roster-service/services"
)

type ImportHandler struct {
	importService services.ImportService
	hub           *realtime.Hub
}

func NewImportHandler(importService services.ImportService, hub *realtime.Hub) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		hub:           hub,
	}
}

// ImportPlayers recibe las filas ya extraídas de la hoja de cálculo y las
// procesa una por una. La respuesta es 200 aunque haya filas fallidas: el
// resumen detalla cada fila con su número de la hoja original.
func (h *ImportHandler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input struct {
		Rows []services.ImportRow `json:"rows"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Rows) == 0 {
		badRequestResponse(w, r, errors.New("rows must not be empty"))
		return
	}

	result, err := h.importService.ImportPlayers(r.Context(), actorID, input.Rows)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:    realtime.MessageImportFinished,
		Payload: result,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil)
}
