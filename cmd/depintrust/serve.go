package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/depintrust/depintrust/internal/api"
	"github.com/depintrust/depintrust/internal/config"
	"github.com/depintrust/depintrust/internal/database"
	"github.com/depintrust/depintrust/internal/scoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trust-scoring API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("depintrust starting...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect to database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.Println("Database connected")

	// Build the scoring pipeline once; its configuration is immutable.
	pipeline := scoring.NewPipeline(scoring.WithWeights(cfg.Weights))
	if cfg.WeightsFile != "" {
		log.Printf("Penalty weights loaded from %s", cfg.WeightsFile)
	}

	// Setup router
	apiHandler := api.New(db, pipeline)

	r := chi.NewRouter()
	r.Mount("/api/v1", apiHandler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		server.Shutdown(context.Background())
	}()

	log.Printf("depintrust listening on %s", cfg.HTTPAddr)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}

	log.Println("depintrust stopped")
	return nil
}
