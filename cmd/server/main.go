// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"arena/internal/config"
	"arena/internal/observability"
	"arena/internal/repositories"
	"arena/internal/routes"
)

func main() {
	config.LoadEnv()
	setupLogger()

	// PostgreSQL + Redis
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer repositories.CloseDB()

	collector := observability.NewCollector(nil)
	go serveMetrics()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Money-moving user routes are rate limited per client.
	for _, path := range []string{"/api/wallet/deposits", "/api/wallet/withdrawals"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        20,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many requests, please try again later",
				})
			},
		}))
	}

	routes.SetupRoutes(app, repositories.DB, collector)

	port := config.GetEnv("PORT", "3000")
	log.Infof("api listening on :%s", port)
	log.Fatal(app.Listen(":" + port))
}

func setupLogger() {
	if config.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// serveMetrics exposes prometheus metrics on a dedicated listener so
// the API port stays application-only.
func serveMetrics() {
	addr := ":" + config.GetEnv("METRICS_PORT", "9091")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Infof("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server stopped: %v", err)
	}
}
