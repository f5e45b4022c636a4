// Package main runs the fitpoints MCP server over stdio for one user.
// The same tools are mounted on the main backend at /mcp over HTTP, bound to
// the authenticated caller.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/2beens/fitpoints/internal/config"
	"github.com/2beens/fitpoints/internal/db"
	"github.com/2beens/fitpoints/internal/fitness/exercises"
	"github.com/2beens/fitpoints/internal/fitness/kpi"
	fitpointsmcp "github.com/2beens/fitpoints/internal/fitness/mcp"
	"github.com/2beens/fitpoints/internal/telemetry/metrics"
	"github.com/2beens/fitpoints/internal/users"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	username := flag.String("username", "", "user whose KPIs the tools report")
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	user, err := users.NewRepo(dbPool).GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("resolve user [%s]: %v", *username, err)
	}

	// stdout carries the protocol, metrics stay in a private registry
	metricsManager := metrics.NewManager("fitpoints", "mcp", prometheus.NewRegistry())
	kpiService := kpi.NewService(kpi.NewRepo(dbPool), metricsManager)
	contextService := fitpointsmcp.NewContextService(
		fitpointsmcp.NewPoolSchemaRepo(dbPool),
		exercises.NewRepo(dbPool),
		kpiService,
	)
	server := fitpointsmcp.NewServer(contextService, user.ID)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
