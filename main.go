package main

import (
	"log"
	"net/http"
	"os"

	"github.com/dukahub/duka-pos/app/cmd"
	"github.com/dukahub/duka-pos/app/configs"
	"github.com/dukahub/duka-pos/app/routes"
	"go.uber.org/zap"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	logger, err := zap.NewProduction()
	if env.AppEnv == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	router := routes.NewRouter(db, logger)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
