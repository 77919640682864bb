package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/undangan-next/internal/app"
	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"

	"github.com/joho/godotenv"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// .env 可选，缺失时直接使用环境变量
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()
	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warnw("dotenv_load_failed", "error", envErr)
	}

	if !app.ValidMode(mode) {
		log.Fatalw("invalid_mode", "mode", mode)
	}

	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			log.Fatalw("jwt_secret_weak", "hint", "configure user_jwt.secret with a strong random value")
		}
		log.Warnw("jwt_secret_weak", "hint", "replace user_jwt.secret before going to production")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode != "release"); err != nil {
		log.Fatalw("database_init_failed", "driver", cfg.Database.Driver, "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("database_migrate_failed", "error", err)
	}

	fmt.Printf("%s API starting (mode=%s)\n", cfg.App.Name, mode)

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  log,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		log.Fatalw("app_run_failed", "error", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
