package main

import (
	"context"

	"github.com/antonnoe/dossierfrankrijk/internal/client/cli"
	"github.com/antonnoe/dossierfrankrijk/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)
	app.Run(context.Background())
}
