package http

import (
	"log/slog"
	"net/http"
	"time"

	"kadry/internal/notify"
)

type notificationHandler struct {
	store  notify.Store
	logger *slog.Logger
}

type notificationResponse struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	Kind         string    `json:"notification_type"`
	DocumentID   *int64    `json:"document_id,omitempty"`
	WorkPermitID *int64    `json:"work_permit_id,omitempty"`
	DaysLeft     int       `json:"days_left"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

func toNotificationResponses(ns []notify.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			ID:           n.ID,
			EmployeeID:   n.EmployeeID,
			Kind:         string(n.Kind),
			DocumentID:   n.DocumentID,
			WorkPermitID: n.WorkPermitID,
			DaysLeft:     n.DaysLeft,
			Message:      n.Message,
			CreatedAt:    n.CreatedAt,
		})
	}
	return out
}

// list serves the dashboard feed of every active expiry notification.
func (h *notificationHandler) list(w http.ResponseWriter, r *http.Request) {
	ns, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(ns))
}

func (h *notificationHandler) listByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID")
	if !ok {
		return
	}
	ns, err := h.store.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(ns))
}
