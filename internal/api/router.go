package api

import "net/http"

func Router(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", h.Health)

	mux.HandleFunc("GET /v1/scheduler/status", h.SchedulerStatus)
	mux.HandleFunc("POST /v1/scheduler/start", h.SchedulerStart)
	mux.HandleFunc("POST /v1/scheduler/stop", h.SchedulerStop)

	mux.HandleFunc("POST /v1/calls", h.CreateCall)
	mux.HandleFunc("GET /v1/calls", h.ListCalls)
	mux.HandleFunc("DELETE /v1/calls/{id}", h.DeleteCall)
	mux.HandleFunc("GET /v1/calls/history", h.ListHistory)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("call-scheduler"))
	})

	return mux
}
