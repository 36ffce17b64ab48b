package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/corfutbolocanero/roster-service/services"
)

type LookupHandler struct {
	lookupService services.LookupService
}

func NewLookupHandler(lookupService services.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

func (h *LookupHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.lookupService.GetCategories(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil)
}

func (h *LookupHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.lookupService.GetCountries(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"countries": countries}, nil)
}

func (h *LookupHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.lookupService.GetDepartments(r.Context(), chi.URLParam(r, "countryID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"departments": departments}, nil)
}

func (h *LookupHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.lookupService.GetCities(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"cities": cities}, nil)
}
