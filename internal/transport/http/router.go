package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"training-assessment-service/internal/app"
	"training-assessment-service/internal/domain"
)

// NewRouter mounts the websocket endpoint and the read-only REST routes.
func NewRouter(service *app.AssessmentService, ws *WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Get("/assessments/{setID}", func(w http.ResponseWriter, r *http.Request) {
		set, err := service.QuestionSet(r.Context(), chi.URLParam(r, "setID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	})

	r.Get("/users/{userID}/results", func(w http.ResponseWriter, r *http.Request) {
		results, err := service.History(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrQuestionSetNotFound) || errors.Is(err, domain.ErrSessionNotFound) {
		status = http.StatusNotFound
	} else {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Code: errorCode(err), Message: err.Error()})
}
