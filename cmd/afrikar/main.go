package main

import (
	"context"
	"fmt"
	"os"

	"afrikar/internal/client"
	"afrikar/internal/config"
	"afrikar/internal/mylogger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur de configuration:", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur du journal:", err)
		os.Exit(1)
	}

	if err := client.Execute(context.Background(), mylog, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(client.ExitCode(err))
	}
}
