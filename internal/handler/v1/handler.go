// Package v1 exposes the medstock views and inventory operations over HTTP.
package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/export"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	inventory *service.InventoryService
	activity  *service.ActivityService
	patients  *service.PatientService
	metrics   *metrics.Collector
	log       *zap.Logger
	loc       *time.Location
	clock     func() time.Time
}

type Deps struct {
	Inventory *service.InventoryService
	Activity  *service.ActivityService
	Patients  *service.PatientService
	Metrics   *metrics.Collector
	Log       *zap.Logger
	// Location renders report dates; defaults to UTC.
	Location *time.Location
	Clock    func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		inventory: d.Inventory,
		activity:  d.Activity,
		patients:  d.Patients,
		metrics:   d.Metrics,
		log:       d.Log,
		loc:       d.Location,
		clock:     d.Clock,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	return h
}

func (h *Handler) now() time.Time {
	return h.clock().In(h.loc)
}

var reportBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 16<<10))
	},
}

// sendReport renders t fully before writing so a render failure can still
// produce a JSON error.
func (h *Handler) sendReport(c *gin.Context, t export.Table) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	buf := reportBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer reportBufPool.Put(buf)

	if err := export.Write(buf, format, t); err != nil {
		h.log.Error("report generation failed", zap.String("view", string(t.Kind)), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	h.metrics.ExportsTotal.WithLabelValues(string(t.Kind), string(format)).Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Filename(format, h.now())))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
