package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf(format, args...)),
		},
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleAnalyzeTicker implements the analyze_ticker tool
func handleAnalyzeTicker(research interfaces.ResearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		report, err := research.Analyze(ctx, interfaces.AnalysisParams{
			Ticker:       ticker,
			Horizon:      request.GetString("horizon", ""),
			LookbackDays: request.GetInt("lookback_days", 0),
		})
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
			return errorResult("Analysis error: %v", err), nil
		}

		return textResult(formatAnalysis(report)), nil
	}
}

// handleMarketOverview implements the market_overview tool
func handleMarketOverview(research interfaces.ResearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := research.MarketOverview(ctx, request.GetBool("force_refresh", false))
		if err != nil {
			logger.Error().Err(err).Msg("Market overview failed")
			return errorResult("Market overview error: %v", err), nil
		}

		return textResult(formatMarket(report)), nil
	}
}

// handleScreenStocks implements the screen_stocks tool
func handleScreenStocks(research interfaces.ResearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return errorResult("Error: query parameter is required"), nil
		}

		report, err := research.Screen(ctx, query, request.GetBool("force_refresh", false))
		if err != nil {
			logger.Error().Err(err).Str("query", query).Msg("Screen failed")
			return errorResult("Screener error: %v", err), nil
		}

		return textResult(formatScreener(report)), nil
	}
}

// handleIPOCalendar implements the ipo_calendar tool
func handleIPOCalendar(research interfaces.ResearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := research.IPOList(ctx, request.GetBool("force_refresh", false))
		if err != nil {
			logger.Error().Err(err).Msg("IPO calendar failed")
			return errorResult("IPO calendar error: %v", err), nil
		}

		return textResult(formatIPOList(report)), nil
	}
}

// handleIPODetail implements the ipo_detail tool
func handleIPODetail(research interfaces.ResearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil || name == "" {
			return errorResult("Error: name parameter is required"), nil
		}

		report, err := research.IPODetail(ctx, name)
		if err != nil {
			logger.Error().Err(err).Str("name", name).Msg("IPO detail failed")
			return errorResult("IPO detail error: %v", err), nil
		}

		return textResult(formatIPODetail(report)), nil
	}
}

// handleAskMarket implements the ask_market tool
func handleAskMarket(chatService interfaces.ChatService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return errorResult("Error: question parameter is required"), nil
		}

		msg, err := chatService.Ask(ctx, question, nil)
		if err != nil {
			logger.Error().Err(err).Msg("Chat failed")
			return errorResult("Chat error: %v", err), nil
		}

		return textResult(msg.Answer), nil
	}
}

func formatAnalysis(r *models.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s:%s", r.Exchange, r.Ticker)
	if r.CompanyName != "" {
		fmt.Fprintf(&b, " — %s", r.CompanyName)
	}
	b.WriteString("\n\n")

	if r.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Summary)
	}

	if s := r.Snapshot; s != nil {
		b.WriteString("## Snapshot\n")
		if s.Price > 0 {
			fmt.Fprintf(&b, "- Price: %.2f (%+.2f%%)\n", s.Price, s.ChangePct)
		}
		if s.MarketCap != "" {
			fmt.Fprintf(&b, "- Market cap: %s\n", s.MarketCap)
		}
		if s.PE > 0 {
			fmt.Fprintf(&b, "- P/E: %.1f\n", s.PE)
		}
		if s.Sector != "" {
			fmt.Fprintf(&b, "- Sector: %s\n", s.Sector)
		}
		b.WriteString("\n")
	}

	if p := r.TradePlan; p != nil {
		fmt.Fprintf(&b, "## Trade plan (%s, %s)\n", p.Bias, r.Horizon)
		fmt.Fprintf(&b, "- Entry: %.2f\n- Stop: %.2f\n- Target: %.2f\n", p.Entry, p.Stop, p.Target)
		if p.RiskReward > 0 {
			fmt.Fprintf(&b, "- Risk/reward: %.1f\n", p.RiskReward)
		}
		if p.Rationale != "" {
			fmt.Fprintf(&b, "\n%s\n", p.Rationale)
		}
		b.WriteString("\n")
	}

	if len(r.Evidence) > 0 {
		b.WriteString("## Evidence\n")
		for _, e := range r.Evidence {
			fmt.Fprintf(&b, "- [%s] %s", e.Category, e.Claim)
			if e.Source != "" {
				fmt.Fprintf(&b, " (%s)", e.Source)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Reasoning) > 0 {
		b.WriteString("## Reasoning\n")
		for _, step := range r.Reasoning {
			fmt.Fprintf(&b, "%d. [%s] %s", step.Step, step.Category, step.Text)
			if step.Speculative {
				b.WriteString(" *(speculative)*")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Scenarios) > 0 {
		b.WriteString("## Scenarios\n")
		for _, sc := range r.Scenarios {
			fmt.Fprintf(&b, "- **%s** (%.0f%%, target %.2f): %s\n", sc.Name, sc.Probability, sc.PriceTarget, sc.Narrative)
		}
	}

	return b.String()
}

func formatMarket(r *models.MarketOverviewReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Market overview (%s)\n\n%s\n\n", r.Sentiment, r.Summary)

	if len(r.Indices) > 0 {
		b.WriteString("## Indices\n")
		for _, idx := range r.Indices {
			fmt.Fprintf(&b, "- %s: %.2f (%+.2f%%)\n", idx.Name, idx.Level, idx.ChangePct)
		}
		b.WriteString("\n")
	}

	writeMovers := func(title string, movers []models.Mover) {
		if len(movers) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n", title)
		for _, m := range movers {
			fmt.Fprintf(&b, "- %s %+.2f%%: %s\n", m.Ticker, m.ChangePct, m.Reason)
		}
		b.WriteString("\n")
	}
	writeMovers("Gainers", r.Gainers)
	writeMovers("Losers", r.Losers)

	if len(r.News) > 0 {
		b.WriteString("## News\n")
		for _, n := range r.News {
			fmt.Fprintf(&b, "- %s\n", n.Headline)
		}
	}

	return b.String()
}

func formatScreener(r *models.ScreenerReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Screen: %s\n\n", r.Query)

	if len(r.Criteria) > 0 {
		b.WriteString("Criteria as interpreted:\n")
		for _, c := range r.Criteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(r.Matches) == 0 {
		b.WriteString("No matches.\n")
	}
	for _, m := range r.Matches {
		fmt.Fprintf(&b, "- **%s**", m.Ticker)
		if m.Name != "" {
			fmt.Fprintf(&b, " (%s)", m.Name)
		}
		if m.Score > 0 {
			fmt.Fprintf(&b, " — score %.0f", m.Score)
		}
		fmt.Fprintf(&b, ": %s\n", m.Rationale)
	}

	if r.Notes != "" {
		fmt.Fprintf(&b, "\n_%s_\n", r.Notes)
	}

	return b.String()
}

func formatIPOList(r *models.IPOListReport) string {
	var b strings.Builder

	b.WriteString("# IPO calendar\n\n")

	writeListings := func(title string, listings []models.IPOListing) {
		fmt.Fprintf(&b, "## %s\n", title)
		if len(listings) == 0 {
			b.WriteString("None.\n\n")
			return
		}
		for _, l := range listings {
			fmt.Fprintf(&b, "- **%s**", l.Name)
			if l.Symbol != "" {
				fmt.Fprintf(&b, " (%s)", l.Symbol)
			}
			if l.ExpectedDate != "" {
				fmt.Fprintf(&b, " — %s", l.ExpectedDate)
			}
			if l.PriceRange != "" {
				fmt.Fprintf(&b, ", %s", l.PriceRange)
			}
			if l.Status != "" {
				fmt.Fprintf(&b, " [%s]", l.Status)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	writeListings("Upcoming", r.Upcoming)
	writeListings("Recent", r.Recent)

	if r.Summary != "" {
		b.WriteString(r.Summary + "\n")
	}

	return b.String()
}

func formatIPODetail(r *models.IPODetailReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s", r.Name)
	if r.Symbol != "" {
		fmt.Fprintf(&b, " (%s)", r.Symbol)
	}
	b.WriteString("\n\n")

	if r.Business != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Business)
	}
	if r.PriceRange != "" {
		fmt.Fprintf(&b, "- Price range: %s\n", r.PriceRange)
	}
	if r.ExpectedDate != "" {
		fmt.Fprintf(&b, "- Expected date: %s\n", r.ExpectedDate)
	}
	if r.Valuation != "" {
		fmt.Fprintf(&b, "- Valuation: %s\n", r.Valuation)
	}
	if len(r.Underwriters) > 0 {
		fmt.Fprintf(&b, "- Underwriters: %s\n", strings.Join(r.Underwriters, ", "))
	}
	b.WriteString("\n")

	if len(r.Financials) > 0 {
		b.WriteString("## Financials\n")
		for _, f := range r.Financials {
			fmt.Fprintf(&b, "- %s: %s", f.Label, f.Value)
			if f.Period != "" {
				fmt.Fprintf(&b, " (%s)", f.Period)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n", title)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	writeList("Strengths", r.Strengths)
	writeList("Risks", r.Risks)

	if r.Verdict != "" {
		fmt.Fprintf(&b, "## Verdict\n%s\n", r.Verdict)
	}

	return b.String()
}
