package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional — production config comes from real env vars.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	h := &Handler{
		db:  getDBPool(log),
		log: log,
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)

	// The client is a separate web app; allow it through explicitly.
	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("CLIENT_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = []string{origin}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Infow("starting cut-coach api", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}
