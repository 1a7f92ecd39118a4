package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/petsync/internal/buildinfo"
	"github.com/dmitrijs2005/petsync/internal/client/cli"
	"github.com/dmitrijs2005/petsync/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	if cfg.ClientSecret == "" && cli.IsTerminal() {
		secret, err := cli.GetSecret("Client secret", os.Stdout)
		if err != nil {
			log.Fatalf("read client secret: %v", err)
		}
		cfg.ClientSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := cli.NewApp(ctx, cfg, cli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
