package v1

import (
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/export"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/gin-gonic/gin"
)

// GET /patients
func (h *Handler) ListPatients(c *gin.Context) {
	var p view.PatientParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.patients.Browse(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /patients/:id
func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	detail, err := h.patients.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

// GET /patients/export?format=csv|xlsx
func (h *Handler) ExportPatients(c *gin.Context) {
	var p view.PatientParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.patients.Browse(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.sendReport(c, export.Patients(result.Items))
}
