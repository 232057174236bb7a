package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/ai", handler.AnalyzeRoster)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{username}", handler.GetUserByUsername)
	mux.HandleFunc("GET /v1/users/{userID}/leagues/{season}", handler.ListUserLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/rosters", handler.ListLeagueRosters)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/users", handler.ListLeagueUsers)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/snapshot", handler.GetLeagueSnapshot)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/transactions", handler.ListLeagueTransactions)
}
