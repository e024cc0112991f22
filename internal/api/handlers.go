package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/auth"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst unchanged when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteError(w, r, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// userID returns the authenticated user. requireAuth guarantees it is set on
// every non-public route.
func userID(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Routes())
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in validation.RegistrationInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	u, err := s.svc.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in, false) {
		return
	}
	if s.issuer == nil {
		WriteUnauthorized(w, r, "Authentication not configured")
		return
	}

	u, err := s.svc.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	token, expires, err := s.issuer.Issue(u)
	if err != nil {
		WriteInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires, UserID: u.ID})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var in validation.HabitInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	h, err := s.svc.CreateHabit(r.Context(), userID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GetHabit(r.Context(), r.PathValue("id"), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	var in validation.HabitInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	h, err := s.svc.UpdateHabit(r.Context(), r.PathValue("id"), userID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteHabit(r.Context(), r.PathValue("id"), userID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &in, true) {
		return
	}

	var date time.Time
	if in.Date != "" {
		var err error
		if date, err = utils.ParseDayInLocation(in.Date, s.svc.Location()); err != nil {
			WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := s.svc.Toggle(r.Context(), r.PathValue("id"), userID(r), date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListMoods(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		value := r.URL.Query().Get(name)
		if value == "" {
			continue
		}
		day, err := utils.ParseDayInLocation(value, s.svc.Location())
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, name+": "+err.Error())
			return
		}
		*dst = day
	}

	entries, err := s.svc.ListMoods(r.Context(), userID(r), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSetMood(w http.ResponseWriter, r *http.Request) {
	var in validation.MoodInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	m, isNew, err := s.svc.SetMood(r.Context(), userID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, m)
}

func (s *Server) handleDeleteMood(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteMood(r.Context(), r.PathValue("id"), userID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
