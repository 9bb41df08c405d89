package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (chat refinement push)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Research reports
	mux.HandleFunc("/api/analyze", s.app.ResearchHandler.AnalyzeHandler)          // POST - single-ticker analysis
	mux.HandleFunc("/api/market", s.app.ResearchHandler.MarketHandler)            // POST - market overview
	mux.HandleFunc("/api/screener", s.app.ResearchHandler.ScreenerHandler)        // POST - criteria screen
	mux.HandleFunc("/api/screener/last", s.app.ResearchHandler.LastScreenHandler) // GET - last screen result
	mux.HandleFunc("/api/ipos", s.app.ResearchHandler.IPOListHandler)             // POST - IPO calendar
	mux.HandleFunc("/api/ipos/detail", s.app.ResearchHandler.IPODetailHandler)    // POST - IPO due diligence

	// API routes - Chat
	mux.HandleFunc("/api/chat", s.app.ChatHandler.AskHandler)  // POST - two-phase question
	mux.HandleFunc("/api/chat/", s.app.ChatHandler.GetHandler) // GET /{id} - current answer slot

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler) // GET - application status

	return mux
}
