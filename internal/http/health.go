package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/database"
	"github.com/mrlokans/novelshelf/internal/providers"
)

type HealthResponse struct {
	Status   string                    `json:"status"`
	Time     string                    `json:"time"`
	Version  string                    `json:"version,omitempty"`
	Checks   map[string]string         `json:"checks"`
	Catalogs map[string]catalog.Status `json:"catalogs,omitempty"`
}

type HealthController struct {
	db       *database.Database
	registry *providers.Registry
	version  string
}

func NewHealthController(db *database.Database, registry *providers.Registry, version string) *HealthController {
	return &HealthController{
		db:       db,
		registry: registry,
		version:  version,
	}
}

// Status reports database connectivity and the state of every catalog.
// Catalogs that are not loaded yet do not make the service unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	var catalogs map[string]catalog.Status
	if h.registry != nil {
		stores := h.registry.Catalogs()
		catalogs = make(map[string]catalog.Status, len(stores))
		for name, store := range stores {
			catalogs[name] = store.Status()
		}
	}

	health := HealthResponse{
		Status:   status,
		Time:     time.Now().Format(time.RFC3339),
		Version:  h.version,
		Checks:   checks,
		Catalogs: catalogs,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
