package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/LeventeLantos/call-scheduler/internal/repo"
	"github.com/LeventeLantos/call-scheduler/internal/scheduler"
	"github.com/LeventeLantos/call-scheduler/internal/service"
)

type Handler struct {
	sched   *scheduler.Scheduler
	calls   *service.CallService
	history *service.HistoryService
}

func NewHandler(s *scheduler.Scheduler, calls *service.CallService, history *service.HistoryService) *Handler {
	return &Handler{sched: s, calls: calls, history: history}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) SchedulerStart(w http.ResponseWriter, r *http.Request) {
	h.sched.Start()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

func (h *Handler) SchedulerStop(w http.ResponseWriter, r *http.Request) {
	h.sched.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.sched.IsRunning()})
}

type createCallRequest struct {
	PhoneNumber   string `json:"phone_number"`
	ScheduledTime string `json:"scheduled_time"`
}

func (h *Handler) CreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.calls.Create(r.Context(), req.PhoneNumber, req.ScheduledTime)
	if err != nil {
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to schedule call")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"scheduled_call": created})
}

func (h *Handler) ListCalls(w http.ResponseWriter, r *http.Request) {
	items, err := h.calls.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scheduled calls")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheduled_calls": items})
}

func (h *Handler) DeleteCall(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.calls.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scheduled call not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete scheduled call")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	offset := parseInt(r.URL.Query().Get("offset"), 0)

	items, err := h.history.ListEnriched(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list call history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"calls": items})
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
