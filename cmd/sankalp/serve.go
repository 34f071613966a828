package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sankalp/internal/billing"
	"sankalp/internal/db"
	"sankalp/internal/server"
	"sankalp/internal/storage"
	"sankalp/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if config.JWTSecret == "" {
		return errors.New("set JWT_SECRET")
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	catalogRepo := store.NewCatalogRepository(pool)
	policyRepo := store.NewPolicyLedgerRepository(pool)
	claimRepo := store.NewClaimRepository(pool)
	notificationRepo := store.NewNotificationRepository(pool)
	supportRepo := store.NewSupportRepository(pool)

	documents := storage.NewDocumentStorage(s3Client, config.DocumentBucket)
	payments := billing.NewStripePayments(config.StripeSecretKey)

	srv, err := server.New(
		config,
		logger,
		userRepo,
		catalogRepo,
		policyRepo,
		claimRepo,
		notificationRepo,
		supportRepo,
		documents,
		payments,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
