package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	salespilot "github.com/salespilot/salespilot"
	"github.com/salespilot/salespilot/common_tools"
	"github.com/salespilot/salespilot/models/foundry"
	"github.com/salespilot/salespilot/server"
	"github.com/salespilot/salespilot/stores"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}

	configPath := os.Getenv("SALESPILOT_CONFIG")
	if configPath == "" {
		configPath = "salespilot.toml"
	}
	cfg, err := salespilot.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := cfg.OpenStore()
	if err != nil {
		log.Fatalf("Failed to open message store: %v", err)
	}
	defer store.Close()

	var traceStore stores.TraceStore
	if provider, ok := store.(interface{ DB() *gorm.DB }); ok {
		traceStore, err = stores.NewGORMTraceStore(provider.DB())
		if err != nil {
			log.Fatalf("Failed to open trace store: %v", err)
		}
	}

	// Register the agent definition once at startup. Tool callables are
	// bound per session later, only the declarations matter here.
	maps := common_tools.NewMapsClient()
	declarations := common_tools.SalesTools(common_tools.NewRouteState(), maps)

	client := foundry.NewClient(cfg.FoundryEndpoint, "", nil)
	agentID, err := client.EnsureAgent(context.Background(), cfg.AgentName, cfg.ModelDeployment, salespilot.AgentInstructions, declarations)
	if err != nil {
		log.Fatalf("Failed to register agent: %v", err)
	}
	log.Printf("Agent '%s' (ID: %s) is ready using model '%s'.", cfg.AgentName, agentID, cfg.ModelDeployment)

	manager := server.NewManager(cfg.FoundryEndpoint, client.APIKey, cfg.AgentName, cfg.ModelDeployment, store, traceStore)
	manager.AgentID = agentID
	manager.Maps = maps

	if _, err := common_tools.ScheduleDailyReset(manager.RouteStates); err != nil {
		log.Printf("Warning: failed to schedule daily reset: %v", err)
	}

	router := server.NewRouter(manager)
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
