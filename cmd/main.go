package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chat-relay/infrastructure/tcp"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so that deferred cleanup (database close,
// sequence release) executes on every exit path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if log.Enabled(context.Background(), slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint)
		log.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, config.DebugPort, endpoint, relayMapper)
	}

	// 3. Repositories (the durable conversation store)
	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return err
	}
	defer userRepository.Close()
	conversationRepository, err := repositories.NewConversationRepository(db)
	if err != nil {
		return err
	}
	defer conversationRepository.Close()
	messageRepository, err := repositories.NewMessageRepository(db, log, config.LimitMessages)
	if err != nil {
		return err
	}
	defer messageRepository.Close()

	// 4. Moderation (disabled when no word list is configured)
	moderator, err := buildModerator(config)
	if err != nil {
		return err
	}

	// 5. Core services
	registry := runtime.NewRegistry()
	identityService := services.NewIdentityService(userRepository)
	relayService := services.NewRelayService(log, conversationRepository, messageRepository, registry, moderator)

	// 6. Transport + ambient workers under supervision
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := tcp.NewServer(log, address, identityService, relayService, registry)
	reporter := workers.NewReporterWorker(log, registry, config.ReportInterval)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(server, reporter)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 8. Blocks until the context is canceled and every worker has drained.
	sup.Run(ctx)
	log.Info("Program stopped cleanly")

	return nil
}

// relayMapper renders the relay's badger records for the debug inspector.
func relayMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "msg:"):
		var record struct {
			ID       int64  `json:"id"`
			SenderID int64  `json:"sender_id"`
			Content  string `json:"content"`
			Read     bool   `json:"read"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "MSG"
		row.EntityID = fmt.Sprintf("%d", record.ID)
		row.Detail = fmt.Sprintf("from=%d read=%t %q", record.SenderID, record.Read, record.Content)

	case strings.HasPrefix(key, "conv"):
		var record struct {
			ID    int64 `json:"id"`
			UserA int64 `json:"user_a"`
			UserB int64 `json:"user_b"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "CONV"
		row.EntityID = fmt.Sprintf("%d", record.ID)
		row.Detail = fmt.Sprintf("between %d and %d", record.UserA, record.UserB)

	case strings.HasPrefix(key, "user:"):
		var record struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "USER"
		row.EntityID = fmt.Sprintf("%d", record.ID)
		row.Detail = record.Name
	}
	return row
}

func buildModerator(config Config) (*moderation.Moderator, error) {
	if config.CensoredWordsFilepath == "" {
		return nil, nil
	}
	words, err := moderation.LoadWords(config.CensoredWordsFilepath)
	if err != nil {
		return nil, fmt.Errorf("censored words: %w", err)
	}
	maskRune, err := characterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	return moderation.NewModerator(words, maskRune)
}
