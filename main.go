package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"staffquiz-server-go/config"
	"staffquiz-server-go/db"
	"staffquiz-server-go/handlers"
	"staffquiz-server-go/models"
)

func main() {
	// Load .env before viper reads the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Open the SQLite store holding staff accounts and questions
	store, err := db.OpenStore(cfg.SQLitePath, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("path", cfg.SQLitePath), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	// --- Check and seed the question bank ---
	checkAndSeedQuestions(store, cfg, logger)
	// --- End check and seed ---

	// Connect Redis for login sessions
	redisClient, err := db.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	sessions := db.NewSessionService(redisClient, cfg.SessionTTL)

	// Create page handler (injecting the store and session service)
	pageHandler := handlers.NewPageHandler(store, sessions, logger)

	// Initialize Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.LoadHTMLGlob("templates/*.html")

	// Setup page routes
	pageHandler.Mount(router)

	// Start the server
	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// checkAndSeedQuestions fills the question bank on first start. Seeding is
// skipped whenever the bank already has rows, so restarts never duplicate
// questions.
func checkAndSeedQuestions(store *db.Store, cfg *config.Config, logger *zap.Logger) {
	ctx := context.Background()

	count, err := store.CountQuestions(ctx)
	if err != nil {
		logger.Warn("could not check for existing questions, skipping seed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info("found existing questions, skipping seed", zap.Int("count", count))
		return
	}

	questions := db.DefaultQuestions()
	if cfg.QuestionsWorkbook != "" {
		if imported, err := readWorkbookQuestions(cfg.QuestionsWorkbook, logger); err != nil {
			logger.Warn("could not read questions workbook, using built-in questions",
				zap.String("path", cfg.QuestionsWorkbook), zap.Error(err))
		} else if len(imported) > 0 {
			questions = imported
		}
	}

	inserted, err := store.SeedQuestions(ctx, questions)
	if err != nil {
		logger.Fatal("failed to seed questions", zap.Error(err))
	}
	logger.Info("seeded question bank", zap.Int("inserted", inserted))
}

func readWorkbookQuestions(path string, logger *zap.Logger) ([]models.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return db.ReadQuestionsWorkbook(f, logger)
}
