package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpadapter "cv-smart/internal/adapter/http"
	repo "cv-smart/internal/adapter/repository"
	"cv-smart/internal/config"
	"cv-smart/internal/logger"
	miniostorage "cv-smart/internal/storage/minio"
	"cv-smart/internal/token"
	"cv-smart/internal/usecase"
	"cv-smart/pkg/ai"
	infra "cv-smart/pkg/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	pool, err := infra.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer pool.Close()

	mc, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatal("failed to initialize object storage", "error", err)
	}
	store, err := miniostorage.NewClient(ctx, mc, cfg.Storage.Bucket)
	if err != nil {
		log.Fatal("failed to prepare storage bucket", "error", err)
	}

	aiClient := ai.NewClient(cfg.AI.ServiceURL, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	tokens := token.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	renderer := infra.NewChromedpRenderer(cfg.Export.ChromePath, cfg.Export.TemplateDir)

	userRepo := repo.NewUserRepo(pool)
	memberRepo := repo.NewMemberRepo(pool)
	cvRepo := repo.NewCVRepo(pool)
	paymentRepo := repo.NewPaymentRepo(pool)
	documentRepo := repo.NewDocumentRepo(pool)

	resolver := usecase.NewIdentityResolver(tokens)
	sessions := usecase.NewSessionManager(cvRepo, log)
	docs := usecase.NewDocumentService(store, documentRepo, cfg.Storage.Bucket, log)
	intake := usecase.NewIntake(aiClient, docs, log)
	composer := usecase.NewComposer(aiClient, log)
	review := usecase.NewReview(composer, cvRepo, log)
	gate := usecase.NewExportGate(paymentRepo, cfg.Payment.CheckoutURL, log)
	exporter, err := usecase.NewExporter(gate, renderer, store, cfg.Export.TemplateDir, log)
	if err != nil {
		log.Fatal("failed to initialize exporter", "error", err)
	}
	auth := usecase.NewAuth(userRepo, memberRepo, tokens, cfg.Admin.Email, log,
		cvRepo, paymentRepo, documentRepo)
	aggregate := func(ctx context.Context, ownerKey string) (map[string]interface{}, error) {
		return repo.AggregateForOwner(ctx, pool, ownerKey)
	}
	admin := usecase.NewAdmin(memberRepo, paymentRepo, cvRepo, documentRepo, store, sessions, aggregate, log)

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})
	httpadapter.Register(app, resolver,
		httpadapter.NewHandler(sessions, intake, review, composer, gate, exporter),
		httpadapter.NewAuthHandler(auth, sessions),
		httpadapter.NewAdminHandler(admin),
	)

	go func() {
		log.Info("server listening", "port", cfg.HTTP.Port)
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
