package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/auth"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
	Tokens    *auth.JWTManager
	Version   string
}

// NewRouter mounts the API under /api/v1. /healthz and /metrics stay
// outside authentication and rate limiting.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Recovery(h.log),
		Logger(h.log),
		Metrics(h.metrics),
		CORS(cfg.CORS),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := r.Group("/api/v1", RateLimit(cfg.RateLimit, h.metrics), Authenticate(cfg.Tokens))
	{
		patients := api.Group("/patients")
		patients.GET("", h.ListPatients)
		patients.GET("/export", h.ExportPatients)
		patients.GET("/:id", h.GetPatient)

		medicines := api.Group("/medicines")
		medicines.GET("", h.ListMedicines)
		medicines.POST("", h.AddMedicine)
		medicines.GET("/export", h.ExportMedicines)
		medicines.GET("/:id", h.GetMedicine)
		medicines.PUT("/:id/stock", h.UpdateStock)
		medicines.POST("/:id/movements", h.RecordMovement)
		medicines.DELETE("/:id", h.DeleteMedicine)

		logs := api.Group("/logs")
		logs.GET("", h.ListLogs)
		logs.GET("/export", h.ExportLogs)
	}

	return r
}
