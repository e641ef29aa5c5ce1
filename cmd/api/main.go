package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/incadev/coreadmin/internal/config"
	"github.com/incadev/coreadmin/internal/database"
	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/scheduler"
	"github.com/incadev/coreadmin/internal/server"
	"github.com/incadev/coreadmin/internal/version"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "coreadmin.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(!cfg.IsProduction(), io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{
		"version":     version.Version,
		"environment": cfg.Environment,
	}).Infof("Starting %s", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Open database failed")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Server setup failed")
	}

	sched := scheduler.New(srv.Deps.Events, srv.Deps.Inventory, cfg.RetentionDays)
	if err := sched.Start(); err != nil {
		logger.WithError(err).Fatal("Scheduler setup failed")
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(map[string]interface{}{"port": cfg.HTTPPort}).Info("Listening")
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}
