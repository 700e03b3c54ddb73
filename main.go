package main

import (
	"log"

	"github.com/joho/godotenv"

	"atlasdash/adapters/atlasapi"
	"atlasdash/adapters/demo"
	"atlasdash/adapters/localstore"
	"atlasdash/adapters/plotly"
	"atlasdash/internal/config"
	"atlasdash/ports"
	"atlasdash/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store := localstore.NewFileStore(cfg.Settings.Path)
	renderer := plotly.New()

	var factory ui.SourceFactory
	if cfg.Atlas.Demo {
		log.Printf("Demo mode: serving canned atlas data with %s simulated latency", cfg.Atlas.DemoDelay)
		factory = func(base string) ports.AtlasSource {
			return demo.New(cfg.Atlas.DemoDelay)
		}
	} else {
		factory = func(base string) ports.AtlasSource {
			return atlasapi.New(base)
		}
	}

	app, err := ui.NewApp(cfg, store, renderer, factory)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
