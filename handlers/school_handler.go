package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/corfutbolocanero/roster-service/realtime"
	"github.com/corfutbolocanero/roster-service/services"
)

type SchoolHandler struct {
	schoolService services.SchoolService
	hub           *realtime.Hub
}

func NewSchoolHandler(schoolService services.SchoolService, hub *realtime.Hub) *SchoolHandler {
	return &SchoolHandler{
		schoolService: schoolService,
		hub:           hub,
	}
}

func (h *SchoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSchoolInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	school, err := h.schoolService.CreateSchool(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"school": school}, nil)
}

func (h *SchoolHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	school, err := h.schoolService.GetSchoolByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"school": school}, nil)
}

func (h *SchoolHandler) List(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schoolService.GetAllSchools(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"schools": schools, "count": len(schools)}, nil)
}

func (h *SchoolHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateSchoolInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	school, err := h.schoolService.UpdateSchool(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessageSchoolUpdated,
		Payload:   school,
		EscuelaID: school.ID,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"school": school}, nil)
}

func (h *SchoolHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	school, err := h.schoolService.UploadLogo(r.Context(), chi.URLParam(r, "id"), file, contentType, header.Size)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessageSchoolUpdated,
		Payload:   school,
		EscuelaID: school.ID,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"school": school}, nil)
}

func (h *SchoolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.schoolService.DeleteSchool(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessageSchoolUpdated,
		EscuelaID: id,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"message": "school deleted"}, nil)
}

func (h *SchoolHandler) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	school, err := h.schoolService.DeleteLogo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.Message{
		Type:      realtime.MessageSchoolUpdated,
		Payload:   school,
		EscuelaID: school.ID,
	})

	writeJSON(w, http.StatusOK, jsonResponse{"school": school}, nil)
}
