package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"survey_wizard/internal/app"
	"survey_wizard/internal/config"
	"survey_wizard/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	checkOnly := flag.Bool("check-config", false, "validate the configuration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *checkOnly {
		fmt.Println("config ok")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, *configDir)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if err := application.Run(ctx); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		logger.Log.Sync()
		os.Exit(1)
	}
}
