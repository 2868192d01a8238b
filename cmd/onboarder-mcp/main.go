package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/onboarder/internal/app"
	"github.com/ternarybob/onboarder/internal/common"
)

func main() {
	var configFiles []string
	if configPath := os.Getenv("ONBOARDER_CONFIG"); configPath != "" {
		configFiles = append(configFiles, configPath)
	} else if _, err := os.Stat("onboarder.toml"); err == nil {
		configFiles = append(configFiles, "onboarder.toml")
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	services, err := app.NewServices(config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize services: %v\n", err)
		os.Exit(1)
	}
	defer services.Close()

	mcpServer := server.NewMCPServer(
		"onboarder",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createFetchRepositoryDocsTool(), handleFetchRepositoryDocs(services.GitHub, logger))
	mcpServer.AddTool(createGenerateOnboardingPackTool(), handleGenerateOnboardingPack(services.Pipeline, config.Document, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server failed: %v\n", err)
		os.Exit(1)
	}
}
