package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"training-assessment-service/internal/app"
	"training-assessment-service/internal/domain"
)

type WSHandler struct {
	service      *app.AssessmentService
	upgrader     websocket.Upgrader
	tickInterval time.Duration
}

// NewWSHandler builds the handler; a positive tickInterval pushes elapsed-time
// snapshots while a session is running.
func NewWSHandler(service *app.AssessmentService, tickInterval time.Duration) *WSHandler {
	return &WSHandler{
		service:      service,
		tickInterval: tickInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type finishedPayload struct {
	domain.Summary
	Percentage float64     `json:"percentage"`
	Tier       domain.Tier `json:"tier"`
}

// ServeWS upgrades HTTP requests to websockets; each connection drives one assessment session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("setId")
	userID := r.URL.Query().Get("userId")
	if setID == "" {
		http.Error(w, "missing setId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	set, err := h.service.QuestionSet(r.Context(), setID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}

	var (
		mu        sync.Mutex
		sessionID string
	)
	currentSession := func() string {
		mu.Lock()
		defer mu.Unlock()
		return sessionID
	}
	defer func() {
		if id := currentSession(); id != "" {
			h.service.End(r.Context(), id)
		}
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// push drops messages once the writer has stopped.
	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	go func() {
		defer close(tickerDone)
		if h.tickInterval <= 0 {
			<-closeSignals
			return
		}
		ticker := time.NewTicker(h.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				id := currentSession()
				if id == "" {
					continue
				}
				snap, err := h.service.Snapshot(r.Context(), id)
				if err != nil || snap.Status == domain.StatusFinished || snap.Status == domain.StatusIdle {
					continue
				}
				select {
				case send <- outboundMessage[any]{Type: "tick", Payload: forClient(snap)}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push(outboundMessage[any]{Type: "ready", Payload: set})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		id := currentSession()
		if inbound.Type != "start" && inbound.Type != "snapshot" && id == "" {
			push(errorMessage(domain.ErrInvalidTransition))
			continue
		}

		switch inbound.Type {
		case "start":
			var snap domain.Snapshot
			if id == "" {
				var newID string
				newID, snap, err = h.service.Start(r.Context(), setID, userID)
				if err == nil {
					mu.Lock()
					sessionID = newID
					mu.Unlock()
				}
			} else {
				snap, err = h.service.Restart(r.Context(), id)
			}
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "snapshot", Payload: forClient(snap)})
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid answer payload"}})
				continue
			}
			snap, err := h.service.Answer(r.Context(), id, payload.OptionID)
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "snapshot", Payload: forClient(snap)})
		case "advance":
			snap, err := h.service.Advance(r.Context(), id)
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "snapshot", Payload: forClient(snap)})
			if snap.IsFinished {
				summary, err := h.service.Summary(r.Context(), id)
				if err != nil {
					push(errorMessage(err))
					continue
				}
				push(outboundMessage[any]{Type: "finished", Payload: finishedPayload{
					Summary:    summary,
					Percentage: summary.Percentage(),
					Tier:       summary.Tier(),
				}})
			}
		case "snapshot":
			if id == "" {
				push(outboundMessage[any]{Type: "snapshot", Payload: domain.Snapshot{
					Status:         domain.StatusIdle,
					TotalQuestions: len(set.Questions),
					Answers:        []domain.Answer{},
				}})
				continue
			}
			snap, err := h.service.Snapshot(r.Context(), id)
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "snapshot", Payload: forClient(snap)})
		case "submit":
			result, err := h.service.Submit(r.Context(), id)
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "submitted", Payload: result})
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

// forClient hides the answer key until the current question has been answered.
func forClient(snap domain.Snapshot) domain.Snapshot {
	if snap.Status == domain.StatusInProgress && snap.CurrentQuestion != nil {
		q := *snap.CurrentQuestion
		q.CorrectOptionID = ""
		q.Explanation = ""
		snap.CurrentQuestion = &q
	}
	return snap
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
}

func toErrorPayload(err error) errorPayload {
	return errorPayload{Code: errorCode(err), Message: err.Error()}
}

// errorCode maps domain errors to stable codes so clients can tell retryable
// answers from configuration problems and failed saves.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestionSet):
		return "empty_question_set"
	case errors.Is(err, domain.ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return "already_submitted"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrQuestionSetNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuestionSet):
		return "invalid_question_set"
	default:
		return "internal"
	}
}
