package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/services/chat"
	"github.com/ternarybob/prospecto/internal/services/research"
)

func main() {
	configPath := os.Getenv("PROSPECTO_CONFIG")
	if configPath == "" {
		configPath = "prospecto.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal console logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	common.SetDefaultExchange(config.Research.DefaultExchange)

	// No persistent storage for the MCP server: reports are generated fresh
	// and the in-memory cache covers repeated calls within a session.
	researchService := research.NewService(config, nil, logger)
	chatService := chat.NewService(config, logger)
	defer chatService.Close()

	mcpServer := server.NewMCPServer(
		"prospecto",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAnalyzeTickerTool(), handleAnalyzeTicker(researchService, logger))
	mcpServer.AddTool(createMarketOverviewTool(), handleMarketOverview(researchService, logger))
	mcpServer.AddTool(createScreenStocksTool(), handleScreenStocks(researchService, logger))
	mcpServer.AddTool(createIPOCalendarTool(), handleIPOCalendar(researchService, logger))
	mcpServer.AddTool(createIPODetailTool(), handleIPODetail(researchService, logger))
	mcpServer.AddTool(createAskMarketTool(), handleAskMarket(chatService, logger))

	if err := server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
