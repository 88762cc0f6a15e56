package main

import (
	"net/http"

	"github.com/dimitzel3/fuel-log/internal/auth"
	"github.com/dimitzel3/fuel-log/internal/config"
	"github.com/dimitzel3/fuel-log/internal/db"
	"github.com/dimitzel3/fuel-log/internal/handlers"
	"github.com/dimitzel3/fuel-log/internal/middleware"
	"github.com/dimitzel3/fuel-log/internal/mqtt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment")
	}
	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	refuels := &db.MongoRefuelCollection{
		Collection: database.Collection("fuel_refuels"),
		Counters:   database.Collection("counters"),
	}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	authHandler := handlers.NewAuthHandler(authService, users)
	refuelHandler := handlers.NewRefuelHandler(refuels, cfg.Rules())
	optionsHandler := &handlers.OptionsHandler{
		Vehicles:  cfg.Vehicles,
		FuelTypes: cfg.FuelTypes,
		Drivers:   cfg.Drivers,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.Handle("/api/options", authMiddleware.RequirePermission("view_refuels")(http.HandlerFunc(optionsHandler.ServeOptions)))
	mux.HandleFunc("/api/refuels", refuelHandler.ServeRefuels)
	mux.HandleFunc("/api/refuels/", refuelHandler.ServeRefuelByID)

	if cfg.MQTTBroker != "" {
		ingester := mqtt.NewIngester(cfg.MQTTBroker, "fuel-log-server", cfg.MQTTTopic, refuels, cfg.Rules())
		if err := ingester.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start MQTT ingester")
		}
		defer ingester.Stop()
		log.WithField("broker", cfg.MQTTBroker).Info("MQTT ingester started")
	}

	rateLimit := middleware.NewRateLimitMiddleware()
	handler := rateLimit.RateLimit(300, 60)(authMiddleware.Authenticate(mux))
	log.WithField("port", cfg.Port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
