package main

import (
	"chat-relay/auth"
	"chat-relay/domain/mimetypes"
	grpc2 "chat-relay/grpc"
	"chat-relay/infrastructure/http/server"
	"chat-relay/internal"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/sink"
	"chat-relay/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every defer (database close first) run before the process ends.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(ctx, config, log))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if log.Enabled(ctx, slog.LevelDebug) {
		url := fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort)
		log.Info("Debug Badger inspector available", "url", url)
		internal.StartDebugServer(ctx, log, db, config.DebugPort, "/inspect")
	}

	// 4. Storage & collaborators
	messageRepository := repositories.NewMessageRepository(db, log, config.StoreTxnRetries)
	groupRepository := repositories.NewGroupRepository(db, log)
	userRepository := repositories.NewUserRepository(db)
	auditRepository := repositories.NewAuditRepository(db)
	attachments, err := storage.NewDiskStore(log, config.AttachmentDir, config.PublicBaseURL,
		int64(config.MaxAttachmentSize), mimetypes.ParseList(config.AttachmentTypes))
	if err != nil {
		return exitRuntime, err
	}
	auditSink := sink.NewAuditSink(log, config.AuditBufferSize)
	tokens := auth.NewTokens(config.JWTSecret, config.AuthTokenDuration)
	monitoring := observability.NewMonitoringManager()

	// 5. Relay core
	registry := runtime.NewRegistry(log)
	router := runtime.NewRouter(log, groupRepository, messageRepository, registry, auditSink,
		config.StoreRetries, config.StoreRetryDelay)
	replayer := runtime.NewReplayer(log, groupRepository, messageRepository)
	receipts := runtime.NewReceipts(log, messageRepository, config.StoreRetries, config.StoreRetryDelay)

	// 6. Supervised workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewAuditWriterWorker(log, auditSink.Entries(), auditRepository),
		workers.NewProcessMonitorWorker(log, monitoring, registry.Count, auditSink.Dropped, config.MetricInterval).
			WithRestarts(sup.Restarts),
		grpc2.NewHealthWorker(log, fmt.Sprintf("%s:%d", config.Host, config.HealthPort)),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 7. HTTP & websocket gateway
	onError := server.ErrorWriter(log)
	handlers := server.Handlers{
		Chat: server.NewChatServer(log, tokens, registry, replayer, router, receipts, monitoring, server.WSConfig{
			PongWait:     config.PongWait,
			PingPeriod:   config.PingPeriod(),
			WriteWait:    config.WriteWait,
			MaxFrameSize: int64(config.MaxFrameSize),
		}, config.ConnectionBufferSize),
		Auth: server.NewAuthServer(services.NewAuthService(userRepository, tokens, auditSink, config.Admins()), onError),
		Attachments: server.NewAttachmentServer(
			services.NewChatService(groupRepository, router, attachments, auditSink),
			attachments.Path, int64(config.MaxAttachmentSize), onError),
		HQ: server.NewHQServer(services.NewGroupService(groupRepository, userRepository, auditRepository, auditSink), onError),
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.NewRouter(log, tokens, monitoring, handlers),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Graceful shutdown: stop accepting, evict sessions, then drain workers.
	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	registry.CloseAll(sink.ReasonShutdown)
	sup.Stop()
	select {
	case <-supDone:
	case <-shutdownCtx.Done():
		log.Warn("Workers did not stop in time")
	}
	log.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(ctx context.Context, config internal.Config, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
