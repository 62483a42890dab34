package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusHealthy is the only status GET /health reports; failures are
// reported through the error response instead.
const StatusHealthy = "healthy"

// HealthStatus is the body of a successful GET /health.
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}

// Health returns a handler that reports the service as healthy with the
// current UTC time. A failing probe is passed to the error translator.
func Health(info ServiceInfo, probe HealthProbe) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probe != nil {
			if err := probe(c.Request.Context()); err != nil {
				_ = c.Error(err)
				return
			}
		}

		c.JSON(http.StatusOK, HealthStatus{
			Status:      StatusHealthy,
			Timestamp:   time.Now().UTC(),
			Version:     info.Version,
			Environment: info.Environment,
		})
	}
}
