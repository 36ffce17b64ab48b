package handlers

import (
	"fmt"
	"net/http"

	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/services"
)

type CertificateHandler struct {
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

func (h *CertificateHandler) PazYSalvo(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.PazYSalvoInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cert, err := h.certificateService.GeneratePazYSalvo(r.Context(), actorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writePDF(w, cert)
}

func (h *CertificateHandler) Transferencia(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "invalid session")
		return
	}

	var input services.TransferInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cert, err := h.certificateService.GenerateTransferencia(r.Context(), actorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writePDF(w, cert)
}

func writePDF(w http.ResponseWriter, cert *services.Certificate) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(cert.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(cert.Data)
}
