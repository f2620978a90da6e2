package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spotcoach/cravebreaker/internal/api"
	"github.com/spotcoach/cravebreaker/internal/genai"
	"github.com/spotcoach/cravebreaker/internal/motivation"
	"github.com/spotcoach/cravebreaker/internal/router"
	"github.com/spotcoach/cravebreaker/internal/scheduler"
	"github.com/spotcoach/cravebreaker/internal/store"
	"github.com/spotcoach/cravebreaker/internal/telegram"
	"github.com/spotcoach/cravebreaker/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for CraveBreaker state data
	DefaultStateDir = "/var/lib/cravebreaker"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "cravebreaker.db"
	// DefaultAPIAddr is the default health server address
	DefaultAPIAddr = ":8080"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := openStore(flags)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	quotes := buildQuoteSelector(flags)

	rt, err := router.NewRouter(st, router.WithQuotes(quotes), router.WithCoachURL(*flags.coachURL))
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if err := sched.ScheduleRetentionCleanup(st); err != nil {
		slog.Error("Failed to schedule retention cleanup", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(api.WithAddr(*flags.apiAddr), api.WithBotConfigured(*flags.botToken != ""))

	// The health server runs regardless of the bot: hosting platforms probe
	// it to keep the process alive, token or no token.
	if *flags.botToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, running health server only")
	} else {
		bot, err := telegram.NewClient(*flags.botToken, rt, telegram.WithPollTimeout(*flags.pollTimeout))
		if err != nil {
			slog.Error("Failed to initialize Telegram client, running health server only", "error", err)
		} else {
			server.AttachBot(bot)
			restartCh := make(chan struct{}, 1)
			server.AttachRestart(func() error {
				select {
				case restartCh <- struct{}{}:
				default:
				}
				return nil
			})
			go superviseBot(ctx, bot, restartCh)
		}
	}

	slog.Info("CraveBreaker starting", "api_addr", *flags.apiAddr, "bot_configured", *flags.botToken != "")
	if err := server.Run(ctx); err != nil {
		slog.Error("CraveBreaker failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("CraveBreaker exited successfully")
}

// superviseBot keeps the polling loop running: it restarts the loop when the
// health API requests it or when the loop exits unexpectedly.
func superviseBot(ctx context.Context, bot *telegram.Client, restartCh <-chan struct{}) {
	for {
		loopCtx, cancelLoop := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- bot.Start(loopCtx) }()

		select {
		case <-ctx.Done():
			cancelLoop()
			<-done
			return
		case <-restartCh:
			slog.Info("Restarting bot loop on request")
			cancelLoop()
			<-done
		case err := <-done:
			cancelLoop()
			if ctx.Err() != nil {
				return
			}
			slog.Error("Bot loop exited unexpectedly, restarting", "error", err)
			time.Sleep(5 * time.Second)
		}
	}
}

// Config holds environment configuration
type Config struct {
	BotToken    string
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	APIAddr     string
	CoachURL    string
	PollTimeout int
	EnableAI    bool
}

// Flags holds command line flag values
type Flags struct {
	botToken    *string
	stateDir    *string
	dbDSN       *string
	openaiKey   *string
	apiAddr     *string
	coachURL    *string
	pollTimeout *int
	enableAI    *bool
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    util.EnvOrDefault("CRAVEBREAKER_STATE_DIR", DefaultStateDir),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		APIAddr:     os.Getenv("API_ADDR"),
		CoachURL:    os.Getenv("COACH_CONTACT_URL"),
		PollTimeout: util.ParseIntEnv("POLL_TIMEOUT", 30),
		EnableAI:    util.ParseBoolEnv("ENABLE_AI_QUOTES", true),
	}

	// Hosting platforms hand out the listen port via $PORT.
	if config.APIAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			config.APIAddr = ":" + port
			slog.Debug("Using $PORT for API address", "api_addr", config.APIAddr)
		} else {
			config.APIAddr = DefaultAPIAddr
		}
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"TELEGRAM_BOT_TOKEN_SET", config.BotToken != "",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"CRAVEBREAKER_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"POLL_TIMEOUT", config.PollTimeout,
		"ENABLE_AI_QUOTES", config.EnableAI)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		botToken:    flag.String("bot-token", config.BotToken, "Telegram bot token (overrides $TELEGRAM_BOT_TOKEN)"),
		stateDir:    flag.String("state-dir", config.StateDir, "state directory for CraveBreaker data (overrides $CRAVEBREAKER_STATE_DIR)"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "database DSN, a file path or PostgreSQL URL (overrides $DATABASE_URL)"),
		openaiKey:   flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for quote enrichment (overrides $OPENAI_API_KEY)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "health server address (overrides $API_ADDR / $PORT)"),
		coachURL:    flag.String("coach-url", config.CoachURL, "coach contact link (overrides $COACH_CONTACT_URL)"),
		pollTimeout: flag.Int("poll-timeout", config.PollTimeout, "Telegram long-poll timeout in seconds (overrides $POLL_TIMEOUT)"),
		enableAI:    flag.Bool("enable-ai-quotes", config.EnableAI, "enrich motivational quotes with OpenAI (overrides $ENABLE_AI_QUOTES)"),
	}

	flag.Parse()

	// Follow the state directory when the DSN was left at its derived default.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated db DSN based on state directory", "db_path", *flags.dbDSN)
	}

	slog.Debug("flags parsed",
		"botTokenSet", *flags.botToken != "",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"pollTimeout", *flags.pollTimeout,
		"enableAI", *flags.enableAI)

	return flags
}

// openStore builds the SQLite or Postgres store depending on the DSN shape.
func openStore(flags Flags) (store.Store, error) {
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildQuoteSelector wires the motivation selector, with GenAI enrichment
// when a key is configured and enrichment is enabled. Enrichment is strictly
// optional: any failure here degrades to deterministic quotes.
func buildQuoteSelector(flags Flags) *motivation.Selector {
	if !*flags.enableAI || *flags.openaiKey == "" {
		slog.Debug("Quote enrichment disabled", "enableAI", *flags.enableAI, "keySet", *flags.openaiKey != "")
		return motivation.NewSelector()
	}
	client, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
	if err != nil {
		slog.Warn("Failed to initialize GenAI client, using deterministic quotes", "error", err)
		return motivation.NewSelector()
	}
	slog.Info("Quote enrichment enabled")
	return motivation.NewSelector(motivation.WithEnricher(client))
}
