package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kadry/internal/history"
)

type historyHandler struct {
	store  history.Store
	logger *slog.Logger
}

type historyEntryResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"entity_kind"`
	EntityID  int64     `json:"entity_id"`
	FieldName string    `json:"field_name"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Action    string    `json:"action"`
	ChangedBy *int64    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

var entityKinds = map[string]history.EntityKind{
	"employee":          history.KindEmployee,
	"employment_period": history.KindEmploymentPeriod,
	"document":          history.KindDocument,
	"work_permit":       history.KindWorkPermit,
	"card_submission":   history.KindCardSubmission,
	"contract":          history.KindContract,
	"sanepid":           history.KindSanepid,
	"contact":           history.KindContact,
}

// listByEntity serves GET /api/history/{kind}/{id}: the entity's change
// ledger, newest first.
func (h *historyHandler) listByEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := entityKinds[chi.URLParam(r, "kind")]
	if !ok {
		badRequest(w, "unknown entity kind")
		return
	}
	id, ok := idParam(w, r, "entityID")
	if !ok {
		return
	}

	entries, err := h.store.ListByEntity(r.Context(), history.EntityRef{Kind: kind, ID: id})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{
			ID:        e.ID,
			Kind:      string(e.Entity.Kind),
			EntityID:  e.Entity.ID,
			FieldName: e.FieldName,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Action:    string(e.Action),
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
