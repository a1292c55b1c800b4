package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/pkg/component/storage"
	"github.com/kart-io/campusgpt/pkg/infra/app"
)

// SystemHandler serves health and build information.
type SystemHandler struct {
	storages *storage.Manager
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(storages *storage.Manager) *SystemHandler {
	return &SystemHandler{storages: storages}
}

// Health handles GET /healthz. It answers 503 when any storage fails its ping.
func (h *SystemHandler) Health(c *gin.Context) {
	statuses := []storage.HealthStatus{}
	if h.storages != nil {
		statuses = h.storages.HealthCheckAll(c.Request.Context())
	}

	status, code := "ok", http.StatusOK
	if !storage.Healthy(statuses) {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "storages": statuses})
}

// Version handles GET /version.
func (h *SystemHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, app.Version())
}
