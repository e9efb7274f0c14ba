package main

import (
	"context"
	"flag"
	"log"
	"os"

	"MacroPull/internal/di"
	"MacroPull/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	mode := flag.String("mode", "run", "run: one pipeline pass; serve: pipeline plus results API")
	noNetwork := flag.Bool("no-network", false, "serve exclusively from the local cache")
	refresh := flag.Bool("refresh", false, "bypass cached series and refetch")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s series=%v", cfg.Environment, cfg.SeriesIDs())

	app, err := di.InitializeApp(cfg, di.Flags{NoNetwork: *noNetwork, Refresh: *refresh})
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	ctx := context.Background()
	switch *mode {
	case "run":
		err = app.RunOnce(ctx)
	case "serve":
		err = app.Serve(ctx)
	default:
		log.Fatalf("unknown mode %q (want run or serve)", *mode)
	}
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
