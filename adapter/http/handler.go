// Package http exposes the planner and recommendation services over a JSON
// API. Authentication is terminated upstream; handlers trust the user
// identity header.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/session"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/trip"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/planner"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/points"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/service/recommend"
)

// UserIDHeader carries the authenticated user identity set by the upstream
// gateway.
const UserIDHeader = "X-User-Id"

// Handler routes API requests to the underlying services.
type Handler struct {
	planner      *planner.Service
	recommend    *recommend.Service
	points       *points.Service
	defaultQuota int
	logger       *zap.Logger
}

// New creates an API handler. A nil logger disables logging.
func New(plannerSvc *planner.Service, recommendSvc *recommend.Service, pointsSvc *points.Service, defaultQuota int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		planner:      plannerSvc,
		recommend:    recommendSvc,
		points:       pointsSvc,
		defaultQuota: defaultQuota,
		logger:       logger,
	}
}

// Register wires the API routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/api/plan/update", h.handlePlanUpdate)
	mux.HandleFunc("POST /v1/api/recommend/session", h.handleSessionInit)
	mux.HandleFunc("POST /v1/api/recommend/session/{id}/next", h.handleSessionNext)
	mux.HandleFunc("GET /v1/api/points/balance", h.handleBalance)
}

// ---------------- helpers -----------------

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "data": v})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ERROR", "message": msg})
}

// statusFor maps service errors to HTTP status codes. Quota and balance
// exhaustion are payment conditions, not server faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, session.ErrQuotaExhausted), errors.Is(err, points.ErrInsufficientPoints):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user identity required")
		return "", false
	}
	return userID, true
}

// ---------------- plan update ----------------

type planUpdateRequest struct {
	Document trip.Document `json:"document"`
	Prompt   string        `json:"prompt"`
}

// planEvent is one SSE payload: narration fragments while the model talks,
// then a final event carrying the updated document.
type planEvent struct {
	Narration string         `json:"narration,omitempty"`
	Document  *trip.Document `json:"document,omitempty"`
	Patched   *bool          `json:"patched,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (h *Handler) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var input planUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if input.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt required")
		return
	}
	if _, err := h.points.ChargeFor(r.Context(), userID, points.ActionPlanUpdate, 1); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	emit := func(event planEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	request := planRequest(input.Document, input.Prompt)
	update, err := h.planner.Update(r.Context(), input.Document, request, func(text string) {
		emit(planEvent{Narration: text})
	})
	if err != nil {
		h.logger.Warn("plan update failed", zap.String("userId", userID), zap.Error(err))
		emit(planEvent{Error: "plan update failed"})
		return
	}
	emit(planEvent{Document: &update.Document, Patched: &update.Patched})
}

// planRequest frames the current itinerary and the user ask as one
// generation request.
func planRequest(document trip.Document, prompt string) *llm.GenerateRequest {
	doc, _ := json.Marshal(document)
	return &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage("Current itinerary:\n" + string(doc)),
			llm.NewUserMessage(prompt),
		},
	}
}

// ---------------- recommendation ----------------

type sessionInitRequest struct {
	Quota     int      `json:"quota,omitempty"`
	Location  string   `json:"location"`
	Interests []string `json:"interests,omitempty"`
}

type sessionInitResponse struct {
	SessionID string `json:"sessionId"`
	Quota     int    `json:"quota"`
}

func (h *Handler) handleSessionInit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var input sessionInitRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	quota := input.Quota
	if quota <= 0 {
		quota = h.defaultQuota
	}
	id, err := h.recommend.InitSession(r.Context(), userID, quota, session.Context{
		Location:  input.Location,
		Interests: input.Interests,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionInitResponse{SessionID: id, Quota: quota})
}

type sessionNextRequest struct {
	Category string   `json:"category"`
	Exclude  []string `json:"exclude,omitempty"`
}

func (h *Handler) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	sessionID := r.PathValue("id")
	var input sessionNextRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if input.Category == "" {
		writeError(w, http.StatusBadRequest, "category required")
		return
	}
	items, err := h.recommend.NextBatch(r.Context(), sessionID, userID, input.Category, input.Exclude)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	balance, err := h.points.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"balance": balance})
}
