package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/corfutbolocanero/roster-service/driveurl"
	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/realtime"
	"github.com/corfutbolocanero/roster-service/services"
)

const maxUploadMemory = 32 << 20

// Nombres de campo esperados en el formulario multipart de archivos.
var multipartFields = map[string]models.PlayerFileField{
	"foto_perfil":    models.FileFotoPerfil,
	"documento_pdf":  models.FileDocumentoPDF,
	"registro_civil": models.FileRegistroCivil,
}

type PlayerHandler struct {
	playerService services.PlayerService
	fetcher       *driveurl.Fetcher
	hub           *realtime.Hub
}

func NewPlayerHandler(playerService services.PlayerService, fetcher *driveurl.Fetcher, hub *realtime.Hub) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		fetcher:       fetcher,
		hub:           hub,
	}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), actorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessagePlayerCreated,
		Payload:   player,
		EscuelaID: player.EscuelaID,
	})

	writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil)
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	player, err := h.playerService.GetPlayerByID(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	players, err := h.playerService.ListPlayers(r.Context(), actorID, includeInactive)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"players": players, "count": len(players)}, nil)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), actorID, chi.URLParam(r, "id"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessagePlayerUpdated,
		Payload:   player,
		EscuelaID: player.EscuelaID,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
}

func (h *PlayerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *PlayerHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *PlayerHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	id := chi.URLParam(r, "id")
	if active {
		err = h.playerService.RestorePlayer(r.Context(), actorID, id)
	} else {
		err = h.playerService.DeactivatePlayer(r.Context(), actorID, id)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// El cambio de estado se relee para difundirlo con la escuela del jugador.
	if player, err := h.playerService.GetPlayerByID(r.Context(), actorID, id); err == nil {
		h.hub.Broadcast(realtime.Message{
			Type:      realtime.MessagePlayerUpdated,
			Payload:   player,
			EscuelaID: player.EscuelaID,
		})
	}

	writeJSON(w, http.StatusOK, jsonResponse{"id": id, "activo": active}, nil)
}

func (h *PlayerHandler) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	player, err := h.playerService.DeletePlayerPermanently(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessagePlayerRemoved,
		Payload:   jsonResponse{"id": player.ID},
		EscuelaID: player.EscuelaID,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"deleted": player.ID}, nil)
}

// UploadFiles recibe hasta tres archivos multipart. La respuesta siempre es
// 200 con el resumen por campo, aunque alguna subida haya fallado.
func (h *PlayerHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var uploads []services.PlayerFileUpload
	for formField, fileField := range multipartFields {
		file, header, err := r.FormFile(formField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			badRequestResponse(w, r, err)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			badRequestResponse(w, r, fmt.Errorf("content type required for %s", formField))
			return
		}

		uploads = append(uploads, services.PlayerFileUpload{
			Field:       fileField,
			Reader:      file,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
		})
	}

	if len(uploads) == 0 {
		badRequestResponse(w, r, errors.New("no files provided"))
		return
	}

	summary, err := h.playerService.UploadPlayerFiles(r.Context(), actorID, chi.URLParam(r, "id"), uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"summary": summary}, nil)
}

// PhotoProxy resuelve una URL de Google Drive a los bytes de la imagen,
// probando las variantes conocidas. Una URL de carpeta es un 422 con la
// sugerencia; candidatas agotadas son un 502.
func (h *PlayerHandler) PhotoProxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		badRequestResponse(w, r, errors.New("url query parameter is required"))
		return
	}

	data, contentType, err := h.fetcher.Fetch(r.Context(), rawURL)
	if err != nil {
		switch {
		case errors.Is(err, driveurl.ErrFolderURL):
			diag := driveurl.Diagnose(rawURL)
			unprocessableResponse(w, r, diag.Error)
		case errors.Is(err, driveurl.ErrAllCandidatesFailed):
			errorResponse(w, r, http.StatusBadGateway, "no se pudo descargar la imagen desde ninguna variante de la URL")
		default:
			serverErrorResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DiagnoseURL valida la forma de una URL de imagen sin descargarla.
func (h *PlayerHandler) DiagnoseURL(w http.ResponseWriter, r *http.Request) {
	var input struct {
		URL string `json:"url"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	diag := driveurl.Diagnose(input.URL)
	writeJSON(w, http.StatusOK, jsonResponse{"diagnosis": diag}, nil)
}
