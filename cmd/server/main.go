package main

import (
	_ "github.com/fluentloop/voice-tutor/docs"
	"github.com/fluentloop/voice-tutor/internal/bootstrap"
)

// @title FluentLoop API
// @version 1.0.0
// @description API server for the FluentLoop language tutoring platform

// @host api.fluentloop.example.com
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name fluentloop_session

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key

func main() {
	bootstrap.Run()
}
