package main

import (
	"log"
	"net/http"

	"pennywise-server/src/api"
	"pennywise-server/src/config"
	"pennywise-server/src/db"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	// Router
	router := api.NewRouter(pool, cfg.DemoMode)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
