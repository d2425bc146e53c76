package main

import (
	"context"
	"log"

	"kabb-server/internal/auth"
	"kabb-server/internal/config"
	"kabb-server/internal/database"
	"kabb-server/internal/handler"
	"kabb-server/internal/infrastructure/gateway"
	"kabb-server/internal/repo"
	"kabb-server/internal/service"
	"kabb-server/internal/storage"
	"kabb-server/internal/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	dbService := database.New(db, cfg)
	defer dbService.Close()

	txRunner := repo.NewTxRunner(db)
	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	userRepo := repo.NewUserRepo(db)
	hospitalRepo := repo.NewHospitalRepo(db)
	licenseRepo := repo.NewLicenseRepo(db)
	agreementRepo := repo.NewAgreementRepo(db)
	auditRepo := repo.NewAuditLogRepo(db)

	tossGateway := gateway.NewTossClient(cfg.TossBaseURL, cfg.TossSecretKey, cfg.TossTimeout)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	fileStore, err := storage.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("file store: %v", err)
	}

	auditService := service.NewAuditService(auditRepo)
	orderService := service.NewOrderService(txRunner, orderRepo)
	paymentService := service.NewPaymentService(txRunner, orderRepo, paymentRepo, tossGateway, auditService)
	licenseService := service.NewLicenseService(txRunner, licenseRepo, userRepo, auditService)
	userService := service.NewUserService(txRunner, userRepo, hospitalRepo, licenseRepo, agreementRepo, fileStore, tokens, auditService)

	reconciler := worker.NewReconciliationWorker(
		txRunner, orderRepo, paymentRepo, tossGateway,
		cfg.ReconcileInterval, cfg.StuckThreshold,
	)
	go reconciler.Run(ctx)

	router := handler.NewRouter(
		tokens,
		dbService,
		handler.NewAuthHandler(userService),
		handler.NewOrderHandler(orderService),
		handler.NewPaymentHandler(paymentService),
		handler.NewAdminHandler(licenseService),
	)

	log.Printf("Listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
