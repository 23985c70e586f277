package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"glowstash/internal/auth"
	"glowstash/internal/db"
	"glowstash/internal/domain/storage"
	"glowstash/internal/mailer"
	"glowstash/internal/photos"
	"glowstash/internal/ratelimiter"
	"glowstash/internal/suggestions"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	// Configure the encoder to be a console encoder with color
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	// Create a console encoder with the custom configuration
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	// Create a log level (you can set your own level here)
	level := zapcore.InfoLevel

	// Use zapcore.NewCore to write logs to standard output (stdout) with color
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	// Create and return a new logger instance
	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "1.0.0"

//	@title			GlowStash API
//	@description	API for GlowStash, a personal beauty and health product tracker.

//	@contact.name	API Support
//	@contact.email	support@glowstash.app

//	@license.name	MIT

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	// Retrieve and convert maxConns
	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}
	// Retrieve and convert minConns
	minConnsStr := os.Getenv("DB_MIN_CONNS")
	minConns, err := strconv.Atoi(minConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MIN_CONNS: %v", err)
	}

	useSSL, _ := strconv.ParseBool(os.Getenv("STORAGE_USE_SSL"))
	storageDebug, _ := strconv.ParseBool(os.Getenv("STORAGE_DEBUG_LOG"))

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    maxConns,
			minConns:    minConns,
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
			mailtrap: mailTrapConfig{
				apiKey: os.Getenv("MAILTRAP_API_KEY"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  time.Hour * 24 * 3, // 3 days
				refreshTokenExp: time.Hour * 24 * 9, // 9 days
				iss:             "GlowStash",
			},
		},
		storage: storageConfig{
			endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			accessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			secretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			useSSL:        useSSL,
			publicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			keySalt:       os.Getenv("STORAGE_KEY_SALT"),
			debugLog:      storageDebug,
		},
		ai: aiConfig{
			apiKey:  os.Getenv("OPENAI_API_KEY"),
			baseURL: os.Getenv("OPENAI_BASE_URL"),
			model:   os.Getenv("OPENAI_MODEL"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	// Create the logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	db, err := db.New(
		cfg.db.addr,
		int32(cfg.db.maxConns),
		int32(cfg.db.minConns),
		cfg.db.maxIdleTime,
	)

	if err != nil {
		logger.Fatal(err)
	}

	defer db.Close()
	logger.Info("database connection pool established")

	//storage
	store := storage.NewContainer(db)

	// object storage for product photos
	objectStore, err := photos.NewMinioStore(
		cfg.storage.endpoint,
		cfg.storage.accessKey,
		cfg.storage.secretKey,
		cfg.storage.useSSL,
		cfg.storage.publicBaseURL,
	)
	if err != nil {
		logger.Fatal(err)
	}

	keys, err := photos.NewKeyGenerator(cfg.storage.keySalt)
	if err != nil {
		logger.Fatal(err)
	}

	var debugLog *photos.DebugLog
	if cfg.storage.debugLog {
		debugLog = photos.NewDebugLog(0)
	}

	resolver := photos.NewBucketResolver(objectStore, logger)
	photoService := photos.NewService(objectStore, resolver, keys, logger, debugLog)

	// suggestion engine; a nil generator means no API key is configured
	var generator suggestions.Generator
	if cfg.ai.apiKey != "" {
		generator = suggestions.NewOpenAIGenerator(cfg.ai.apiKey, cfg.ai.baseURL, cfg.ai.model)
	}
	suggestionService := suggestions.NewService(store.Products, generator, logger)

	mailtrap, err := mailer.NewMailTrapClient(cfg.mail.mailtrap.apiKey, cfg.mail.fromEmail)
	if err != nil {
		logger.Fatal(err)
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		photos:        photoService,
		suggestions:   suggestionService,
		mailer:        mailtrap,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		stat := db.Stat()
		return map[string]any{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
			"max_conns":      stat.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
