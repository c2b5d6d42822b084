package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/auth"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/collectors"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/config"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/handlers"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/llm"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/triage"
)

func main() {
	cfg := config.Load()

	// Fail fast: without model credentials every triage call would dead-end.
	if !cfg.Model.HasCredentials() {
		log.Fatal("No OpenAI credentials found: set OPENAI_API_KEY for OpenAI SaaS, " +
			"or AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT_NAME for Azure OpenAI")
	}

	sources := collectors.NewMongoSources(cfg.Splunk)
	gateway := llm.NewGateway(cfg.Model)
	pipeline := triage.NewPipeline(sources, gateway, cfg.MaxItems)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "X-Requested-With", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health)
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.POST("/refresh", handlers.RefreshToken)

	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/triage", handlers.Triage(pipeline))
		protected.POST("/generate_sample", handlers.GenerateSample)
	}

	r.Run(":8080")
}
