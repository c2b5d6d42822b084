package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Root lists the main available routes.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sherlock-backend",
		"endpoints": []gin.H{
			{"path": "/api/generate_sample", "method": "POST", "desc": "Generate demo logs/deploys/metrics"},
			{"path": "/api/triage", "method": "POST", "desc": "Main triage endpoint"},
			{"path": "/health", "method": "GET", "desc": "Health check (200)"},
		},
	})
}

// Health is the liveness endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}
