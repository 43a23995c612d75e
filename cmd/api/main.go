package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/bootstrap"
	"unishare-backend/internal/shared/config"
	"unishare-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
