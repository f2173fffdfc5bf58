package main

import (
	"context"
	"log"
	"net/http"

	"centimo-server/src/api"
	"centimo-server/src/config"
	"centimo-server/src/db"
	"centimo-server/src/tink"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	tinkClient := tink.NewClient(cfg.TinkClientID, cfg.TinkClientSecret)

	// Router
	router := api.NewRouter(pool, tinkClient, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
