package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"portal-chat/api"
	"portal-chat/auth"
	"portal-chat/internal"
	"portal-chat/moderation"
	"portal-chat/observability"
	"portal-chat/repositories"
	"portal-chat/runtime/workers"
	"portal-chat/search"
	"portal-chat/services"
	"portal-chat/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle and
// centralizes error reporting, so every defer executes before the process
// exits and main stays trivially small.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	auth.SetSecret(config.JWTSecret)

	// 2. Storage (BadgerDB + Bluge index + attachment files)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	indexWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = indexWriter.Close()
	}()

	attachments, err := storage.NewAttachmentStore(config.AttachmentsDir, log)
	if err != nil {
		return fmt.Errorf("attachment store failed: %w", err)
	}

	// 3. Domain services
	censorChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(config.CensoredWords, censorChar)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}

	chatService := services.NewChatService(
		repositories.NewMessageRepository(db, log),
		repositories.NewTypingRepository(db),
		search.NewMessageIndex(indexWriter, log),
		moderator,
		log,
	)
	authService := services.NewAuthService(repositories.NewUserRepository(db), config.AuthTokenDuration)

	// 4. Observability & debug inspector
	monitor, err := observability.NewSelfMonitor()
	if err != nil {
		return fmt.Errorf("self monitor failed: %w", err)
	}
	if config.DebugServer {
		internal.StartDebugServer(db, config.DebugServerPort, internal.MessageMapper, monitor.Stats)
		log.Info("Debug inspector enabled", "port", config.DebugServerPort)
	}

	// 5. Context, signals, background workers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewBadgerGCWorker(db, config.BadgerGCInterval, log))
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 6. HTTP server
	handler := api.NewHandler(chatService, authService, attachments, log)
	router := api.NewRouter(handler, attachments.Root(), config.AllowedOrigins)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
