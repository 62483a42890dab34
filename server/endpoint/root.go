package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootResponse is the body of GET /.
type RootResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	DocsURL     string `json:"docs_url"`
	HealthURL   string `json:"health_url"`
}

// Root returns a handler that reports the service identity and where to
// find its documentation and health check.
func Root(info ServiceInfo) gin.HandlerFunc {
	body := RootResponse{
		Name:        info.Name,
		Version:     info.Version,
		Description: info.Description,
		DocsURL:     DocsURL,
		HealthURL:   HealthURL,
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, body)
	}
}
