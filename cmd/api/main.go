package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/logger"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yml")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.Shutdown()

	if err := a.Run(ctx); err != nil {
		logger.Error("Сервер завершился с ошибкой", err)
		a.Shutdown()
		os.Exit(1)
	}
}
