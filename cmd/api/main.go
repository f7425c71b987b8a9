package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"calendarApp/internal/app"
	"calendarApp/internal/config"
	"calendarApp/internal/logger"
)

func main() {
	printConfig := flag.Bool("print-config", false, "Print the effective configuration as YAML and exit")
	flag.Parse()

	cfg, err := config.Load(".", "./config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	if *printConfig {
		out, err := cfg.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	ctx := context.Background()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "инициализация: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("App: Сервер завершился с ошибкой", err)
		os.Exit(1)
	}
}
