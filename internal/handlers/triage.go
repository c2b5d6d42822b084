package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/llm"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/triage"
)

// Triage returns the handler for the main pipeline endpoint. The pipeline is
// injected here instead of living in a package global.
func Triage(pipeline *triage.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TriageRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query must be provided"})
			return
		}

		doc, err := pipeline.Run(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, llm.ErrNoCredentials) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "no model credentials configured"})
				return
			}
			// Client went away or the request deadline passed.
			log.Printf("triage aborted: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "triage aborted"})
			return
		}

		c.JSON(http.StatusOK, doc)
	}
}
