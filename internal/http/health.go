package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/mylib/internal/api"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Backend string            `json:"backend,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db       *gorm.DB
	registry *api.Registry
	version  string
}

func NewHealthController(db *gorm.DB, registry *api.Registry, version string) *HealthController {
	return &HealthController{
		db:       db,
		registry: registry,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	var backend string
	if client, err := h.registry.Client(); err != nil {
		checks["api_client"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["api_client"] = "ok"
		backend = client.BaseURL()
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Backend: backend,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
