package v1

import (
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/export"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/gin-gonic/gin"
)

// GET /logs
func (h *Handler) ListLogs(c *gin.Context) {
	var p view.LogParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.activity.View(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /logs/export?format=csv|xlsx
func (h *Handler) ExportLogs(c *gin.Context) {
	var p view.LogParams
	if !bindQuery(c, &p) {
		return
	}
	result, err := h.activity.View(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.sendReport(c, export.Logs(result.Items, h.loc))
}
