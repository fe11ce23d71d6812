package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebin/internal/config"
	"notebin/internal/db"
	mcpserver "notebin/internal/mcp"
	"notebin/internal/notes"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed static
var staticFS embed.FS

func main() {
	// Config
	godotenv.Load()
	cfg := config.Load()

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Context for startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MongoDB
	logger.Info("connecting to MongoDB", "uri", cfg.MongoURI)
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	logger.Info("connected to MongoDB")

	// Wire dependencies
	noteRepo := notes.NewRepo(database)
	if err := noteRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure indexes", "error", err)
	}
	noteSvc := notes.NewService(noteRepo)
	noteHandler := notes.NewHandler(noteSvc, logger)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(noteSvc)

	// HTTP router
	mux := http.NewServeMux()

	// REST API endpoints
	mux.HandleFunc("GET /texts", noteHandler.ListNotes)
	mux.HandleFunc("POST /text", noteHandler.CreateNote)
	mux.HandleFunc("GET /text/{id}", noteHandler.GetNote)
	mux.HandleFunc("DELETE /text/{id}", noteHandler.DeleteNote)
	mux.HandleFunc("GET /text/{id}/file/{filename}", noteHandler.GetAttachment)
	mux.HandleFunc("GET /text/{id}/preview", noteHandler.PreviewNote)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Editor client
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to get static fs: %v", err)
	}
	mux.Handle("GET /", http.FileServer(http.FS(sub)))

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      notes.WithCORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		if err := database.Client().Disconnect(shutdownCtx); err != nil {
			logger.Error("mongo disconnect error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port)
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"api", "http://localhost:"+cfg.Port+"/texts",
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("server stopped")
}
