package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"carpool/internal/api"
	"carpool/internal/api/handlers"
	"carpool/internal/config"
	"carpool/internal/registry"
	"carpool/internal/repository/memory"
	"carpool/internal/services"
	"carpool/internal/transport"
	"carpool/internal/transport/ws"
)

func main() {
	app := &cli.App{
		Name:  "carpool",
		Usage: "Conversational carpool coordinator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Usage: "listen address (overrides config)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to YAML config file"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Failed to start carpool server: %v", err)
	}
}

func run(c *cli.Context) error {
	// Load configuration
	cfg := config.NewDefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	// Initialize stores
	sessionStore := memory.NewSessionStore()
	rideStore := memory.NewRideStore(cfg.Store.SweepInterval)
	defer rideStore.Stop()

	// Outbound transport: WebSocket hub, with undeliverable messages
	// downgraded to log lines so delivery failures never reach the core.
	hub := ws.NewHub()
	sender := &transport.LogFallback{Next: hub}

	// Initialize services
	locationRegistry := registry.NewDefault()
	feedbackLog := services.NewFeedbackLog()
	notificationService := services.NewNotificationService(sender)
	matchingService := services.NewMatchingService(cfg, rideStore, notificationService)
	conversationService := services.NewConversationService(
		locationRegistry,
		sessionStore,
		rideStore,
		matchingService,
		feedbackLog,
		sender,
	)

	// Initialize handlers and router
	messageHandler := handlers.NewMessageHandler(conversationService, hub)
	rideHandler := handlers.NewRideHandler(rideStore, locationRegistry)
	router := api.NewRouter(messageHandler, rideHandler)

	engine := gin.Default()
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Starting carpool server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
