package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/service"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

// ProblemDetail implements RFC 7807 (Problem Details for HTTP APIs).
// All API error responses use this format.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Errors lists the invalid fields of a validation failure.
	Errors []validation.Problem `json:"errors,omitempty"`
}

func (p *ProblemDetail) Error() string {
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

func writeProblem(w http.ResponseWriter, r *http.Request, p ProblemDetail) {
	p.Type = "about:blank"
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if r != nil {
		p.Instance = r.URL.Path
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteError writes a problem response with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, ProblemDetail{Status: status, Detail: detail})
}

// WriteUnauthorized writes a 401 error response.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "Authentication required"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="habits"`)
	WriteError(w, r, http.StatusUnauthorized, detail)
}

// WriteTooManyRequests writes a 429 error response with a Retry-After header.
func WriteTooManyRequests(w http.ResponseWriter, r *http.Request, retryAfterSecs int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	WriteError(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Retry after the specified interval.")
}

// WriteInternal writes a 500 error response. err is logged but never exposed to
// the client.
func WriteInternal(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("Internal server error", "path", r.URL.Path, "error", err)
	WriteError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
}

// writeServiceError maps a service error to its problem response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, ProblemDetail{
			Status: http.StatusUnprocessableEntity,
			Title:  "Validation Failed",
			Detail: verr.Error(),
			Errors: verr.Problems,
		})
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "The requested resource does not exist")
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrNotDueToday),
		errors.Is(err, service.ErrFrequencyChange):
		WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		WriteError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteUnauthorized(w, r, err.Error())
	default:
		WriteInternal(w, r, err)
	}
}
