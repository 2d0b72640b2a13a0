package main

import (
	"context"
	"log"
	"os"

	"github.com/passguard/passguardctl/internal/buildinfo"
	"github.com/passguard/passguardctl/internal/client/cli"
	"github.com/passguard/passguardctl/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
