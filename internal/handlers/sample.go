package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/collectors"
)

type generateSampleRequest struct {
	Scenario string `json:"scenario"`
	Count    int    `json:"count"`
}

// GenerateSample fabricates demo logs, a deploy stub and a metric sample for
// one incident scenario.
func GenerateSample(c *gin.Context) {
	req := generateSampleRequest{Scenario: "pool", Count: 10}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Scenario == "" {
		req.Scenario = "pool"
	}

	generated, err := collectors.GenerateSampleIncident(c.Request.Context(), req.Scenario, req.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "generated": generated, "scenario": req.Scenario})
}
