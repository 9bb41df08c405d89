package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAnalyzeTickerTool returns the analyze_ticker tool definition
func createAnalyzeTickerTool() mcp.Tool {
	return mcp.NewTool("analyze_ticker",
		mcp.WithDescription("Produce a structured trade-plan analysis for a single stock: entry, stop, target, evidence, reasoning and scenarios"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker, optionally exchange-qualified (AAPL, NASDAQ:AAPL, ASX:BHP)"),
		),
		mcp.WithString("horizon",
			mcp.Description("Trade horizon: day, swing, position (default: swing)"),
		),
		mcp.WithNumber("lookback_days",
			mcp.Description("Price history window in days (default: 90)"),
		),
	)
}

// createMarketOverviewTool returns the market_overview tool definition
func createMarketOverviewTool() mcp.Tool {
	return mcp.NewTool("market_overview",
		mcp.WithDescription("Whole-of-market scan: indices, movers, sectors, news, flows and corporate actions. Served from a short-lived cache unless forced"),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass the cache and regenerate (default: false)"),
		),
	)
}

// createScreenStocksTool returns the screen_stocks tool definition
func createScreenStocksTool() mcp.Tool {
	return mcp.NewTool("screen_stocks",
		mcp.WithDescription("Screen US-listed stocks against free-text criteria, e.g. 'profitable small caps under 10x earnings with insider buying'"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Screening criteria in plain English"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass the cache and regenerate (default: false)"),
		),
	)
}

// createIPOCalendarTool returns the ipo_calendar tool definition
func createIPOCalendarTool() mcp.Tool {
	return mcp.NewTool("ipo_calendar",
		mcp.WithDescription("Upcoming and recent IPOs on US exchanges with dates, price ranges and deal sizes"),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass the cache and regenerate (default: false)"),
		),
	)
}

// createIPODetailTool returns the ipo_detail tool definition
func createIPODetailTool() mcp.Tool {
	return mcp.NewTool("ipo_detail",
		mcp.WithDescription("Due-diligence brief on a single IPO: business, financials, strengths, risks, underwriters and verdict. Always generated fresh"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Company name or proposed ticker"),
		),
	)
}

// createAskMarketTool returns the ask_market tool definition
func createAskMarketTool() mcp.Tool {
	return mcp.NewTool("ask_market",
		mcp.WithDescription("Ask a free-form market question and get a concise plain-text answer"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
	)
}
