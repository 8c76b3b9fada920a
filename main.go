package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KienPC1234/TerraSync-sub000/alerts"
	"github.com/KienPC1234/TerraSync-sub000/config"
	"github.com/KienPC1234/TerraSync-sub000/controllers"
	"github.com/KienPC1234/TerraSync-sub000/ingest"
	"github.com/KienPC1234/TerraSync-sub000/middlewares"
	"github.com/KienPC1234/TerraSync-sub000/query"
	"github.com/KienPC1234/TerraSync-sub000/retention"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st := store.Open(cfg.Store.Path)
	feed := controllers.NewFeedHub()
	pipeline := ingest.New(st, alerts.NewEvaluator(cfg.Alerts), feed)
	queries := query.NewService(st)
	api := controllers.NewAPI(pipeline, queries, st)

	sweeper := retention.New(st, cfg.AlertWindow(), cfg.TelemetryWindow(), cfg.Retention.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)

	// Set up Gin router with CORS configuration
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middlewares.Metrics())

	r.POST("/ingest", api.Ingest)
	r.GET("/telemetry/latest", api.LatestTelemetry)
	r.GET("/telemetry/history", api.TelemetryHistory)
	r.GET("/telemetry/export", api.ExportTelemetryCSV)
	r.GET("/alerts", api.ListAlerts)
	r.POST("/hubs", api.RegisterHub)
	r.POST("/sensors", api.RegisterSensor)
	r.GET("/hubs/status", api.HubStatus)
	r.GET("/health", api.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", feed.Handle)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("TerraSync core listening on port %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
