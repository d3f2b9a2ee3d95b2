package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// baseURL rebuilds the absolute origin of the current request. Behind the
// reverse proxy the forwarded protocol wins over the connection scheme.
func baseURL(c *gin.Context) string {
	scheme := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	host := c.Request.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host
}
