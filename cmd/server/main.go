package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/api"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/config"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/db"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/repository"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/service"
)

func main() {
	// 1. Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.New()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Connect database and run migrations
	database, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// 3. Wire layers
	transactionRepo := repository.NewTransactionRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	alertRepo := repository.NewAlertRepository(database)
	merchantRepo := repository.NewMerchantRepository(database)
	ruleRepo := repository.NewAlertRuleRepository(database)
	deviceRepo := repository.NewDeviceRepository(database)
	authRepo := repository.NewAuthRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	ruleRunner := repository.NewDBRuleRunner(database)

	notifier := service.NewOperatorNotifier(notificationRepo, logger)
	if cfg.RabbitMQEnabled {
		if err := notifier.EnableAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey); err != nil {
			logger.Warn("RabbitMQ unavailable, notifications limited to the store", zap.Error(err))
		}
	}
	defer notifier.Close()

	resolver := service.NewRuleConfigResolver(ruleRepo, service.DefaultRuleConfig(cfg), logger)
	classifier := service.NewRiskClassifier(merchantRepo, logger)
	engine := service.NewRuleEngine(transactionRepo, alertRepo, resolver, classifier, ruleRunner, notifier, logger)
	ingestion := service.NewIngestionService(transactionRepo, accountRepo, engine, logger)
	stepUp := service.NewStepUpService(transactionRepo, accountRepo, alertRepo, authRepo, notifier, logger)
	alerts := service.NewAlertService(alertRepo, logger)
	auth := service.NewAuthService(authRepo, accountRepo, cfg.JWTSecret, logger)

	authHandler := api.NewAuthHandler(auth, logger)
	txHandler := api.NewTransactionHandler(ingestion, stepUp, alerts, accountRepo, transactionRepo, deviceRepo, logger)
	alertHandler := api.NewAlertHandler(alerts, logger)

	// 4. Setup routes and start server
	mux := api.SetupRoutes(authHandler, txHandler, alertHandler, cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("server listening", zap.String("address", cfg.ServerAddress))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
