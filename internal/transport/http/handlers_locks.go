package http

import (
	"log/slog"
	"net/http"

	"kadry/internal/editlock"
)

type lockHandler struct {
	locks  *editlock.Service
	logger *slog.Logger
}

type lockStatusResponse struct {
	Locked bool   `json:"locked"`
	Holder *int64 `json:"holder,omitempty"`
}

// acquire takes the edit lease before the edit form opens. 409 means someone
// else is already in the form.
func (h *lockHandler) acquire(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.locks.Acquire(r.Context(), employeeID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// refresh is the keep-alive ping while the form stays open.
func (h *lockHandler) refresh(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.locks.Refresh(r.Context(), employeeID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *lockHandler) release(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.locks.Release(r.Context(), employeeID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *lockHandler) status(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	holder, held, err := h.locks.Holder(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	resp := lockStatusResponse{Locked: held}
	if held {
		resp.Holder = &holder
	}
	writeJSON(w, http.StatusOK, resp)
}
