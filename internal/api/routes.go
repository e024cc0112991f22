package api

import (
	"net/http"
	"strings"
)

type RouteDoc struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Summary string `json:"summary,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

func handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(methodAndPattern, " ")
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary})
	mux.HandleFunc(methodAndPattern, h)
}

func (s *Server) routes() {
	mux, rr := s.mux, &s.registry

	handle(mux, rr, "GET /health", "Liveness and database ping", s.handleHealth)
	handle(mux, rr, "GET /api", "List API routes", s.handleRoutes)

	handle(mux, rr, "POST /api/auth/register", "Create an account", s.handleRegister)
	handle(mux, rr, "POST /api/auth/login", "Exchange credentials for a bearer token", s.handleLogin)

	handle(mux, rr, "GET /api/habits", "Habits grouped for today", s.handleDashboard)
	handle(mux, rr, "POST /api/habits", "Create a habit", s.handleCreateHabit)
	handle(mux, rr, "GET /api/habits/{id}", "Habit detail with streak, progress and history", s.handleGetHabit)
	handle(mux, rr, "PUT /api/habits/{id}", "Update a habit", s.handleUpdateHabit)
	handle(mux, rr, "DELETE /api/habits/{id}", "Delete a habit", s.handleDeleteHabit)
	handle(mux, rr, "POST /api/habits/{id}/toggle", "Toggle today's completion", s.handleToggle)

	handle(mux, rr, "GET /api/moods", "List mood entries (?from=&to=)", s.handleListMoods)
	handle(mux, rr, "PUT /api/moods", "Record the mood for a day", s.handleSetMood)
	handle(mux, rr, "DELETE /api/moods/{id}", "Delete a mood entry", s.handleDeleteMood)

	handle(mux, rr, "GET /api/stats", "User statistics", s.handleStats)
	handle(mux, rr, "GET /api/progression", "Level, XP and rewards", s.handleProgression)
}
