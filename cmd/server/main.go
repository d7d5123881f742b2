// Package main runs the visitor management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gatehouse-vms/backend/config"
	"github.com/gatehouse-vms/backend/internal/history"
	"github.com/gatehouse-vms/backend/internal/middleware"
	"github.com/gatehouse-vms/backend/internal/notify"
	"github.com/gatehouse-vms/backend/internal/requests"
	"github.com/gatehouse-vms/backend/internal/visitors"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
	"github.com/gatehouse-vms/backend/internal/visitorstore/dynamo"
	"github.com/gatehouse-vms/backend/internal/visitorstore/memory"
	"github.com/gatehouse-vms/backend/pkg/email"
	"github.com/gatehouse-vms/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	var store visitorstore.Store
	switch cfg.Store.Driver {
	case "memory":
		store = memory.New()
		logger.Warn("using in-memory visitor store; records are lost on restart")
	default:
		store, err = dynamo.New(ctx, dynamo.Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Table:           cfg.Store.Table,
			Index:           cfg.Store.Index,
		}, logger)
		if err != nil {
			logger.Fatal("visitor store", zap.Error(err))
		}
	}

	var mailer notify.Mailer
	if cfg.Email.Sender != "" {
		sesMailer, err := email.NewSES(ctx, email.Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Sender:          cfg.Email.Sender,
		}, logger)
		if err != nil {
			logger.Warn("email disabled", zap.Error(err))
		} else {
			mailer = sesMailer
		}
	} else {
		logger.Warn("SENDER_EMAIL not set, notifications disabled")
	}

	dispatcher := notify.NewDispatcher(mailer, logger)
	svc := visitors.NewService(store, dispatcher, logger)

	requestsHandler := requests.NewHandler(svc, logger)
	visitorsHandler := visitors.NewHandler(svc, logger)
	historyHandler := history.NewHandler(store, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/requests", requestsHandler.Create)
	router.GET("/history", historyHandler.List)
	router.POST("/visitors", visitorsHandler.Action)
	router.GET("/visitors", visitorsHandler.GetDetails)

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) { response.Message(c, http.StatusMethodNotAllowed, "Method not allowed") })
	router.NoRoute(func(c *gin.Context) { response.Message(c, http.StatusNotFound, "Not found") })

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
