package history

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"kadry/pkg/requestcontext"
)

// Recorder appends change entries for tracked entity mutations. It is bound
// to a Store, which in the write paths is transaction-scoped: if an append
// fails the enclosing mutation fails with it, so a row is never mutated
// without its change being recorded.
type Recorder struct {
	store   Store
	entries prometheus.Counter
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithEntryCounter counts appended entries.
func WithEntryCounter(c prometheus.Counter) RecorderOption {
	return func(r *Recorder) { r.entries = c }
}

// NewRecorder binds a recorder to a (possibly transaction-scoped) store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) count(n int) {
	if r.entries != nil {
		r.entries.Add(float64(n))
	}
}

// RecordOption adjusts attribution of recorded entries.
type RecordOption func(*recordSettings)

type recordSettings struct {
	actor    *int64
	hasActor bool
}

// AsUser attributes the recorded entries to an explicit user instead of the
// ambient request actor. Batch jobs use this to attribute their changes to
// the system user.
func AsUser(userID int64) RecordOption {
	return func(s *recordSettings) {
		s.actor = &userID
		s.hasActor = true
	}
}

// actorFor resolves attribution: explicit override first, ambient request
// actor second, nil (anonymous system change) last.
func actorFor(ctx context.Context, opts []RecordOption) *int64 {
	var s recordSettings
	for _, opt := range opts {
		opt(&s)
	}
	if s.hasActor {
		return s.actor
	}
	if id, ok := requestcontext.ActorID(ctx); ok {
		return &id
	}
	return nil
}

// RecordCreate appends the single synthetic "created" marker for a newly
// persisted entity. No field-level diff is written on creation.
func (r *Recorder) RecordCreate(ctx context.Context, entity Auditable, opts ...RecordOption) error {
	entry := Entry{
		Entity:    entity.HistoryRef(),
		FieldName: FieldAll,
		Action:    ActionCreated,
		ChangedBy: actorFor(ctx, opts),
		ChangedAt: requestcontext.Now(ctx),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("record create: %w", err)
	}
	r.count(1)
	return nil
}

// RecordUpdate diffs the before and after snapshots and appends one entry per
// changed field. Unchanged fields produce no entries; a mutation that changes
// nothing is not an error.
func (r *Recorder) RecordUpdate(ctx context.Context, ref EntityRef, before, after Snapshot, opts ...RecordOption) error {
	entries := Diff(ref, before, after)
	if len(entries) == 0 {
		return nil
	}

	actor := actorFor(ctx, opts)
	now := requestcontext.Now(ctx)
	for i := range entries {
		entries[i].ChangedBy = actor
		entries[i].ChangedAt = now
	}
	if err := r.store.Append(ctx, entries...); err != nil {
		return fmt.Errorf("record update: %w", err)
	}
	r.count(len(entries))
	return nil
}

// RecordDelete purges the entity's ledger and appends the single "deleted"
// marker carrying a display snapshot of what was removed. The purge keeps the
// history view from dangling on rows that no longer exist, at the cost of
// losing the deleted entity's own edit trail beyond this one marker.
func (r *Recorder) RecordDelete(ctx context.Context, entity Auditable, opts ...RecordOption) error {
	ref := entity.HistoryRef()
	if err := r.store.PurgeEntity(ctx, ref); err != nil {
		return fmt.Errorf("purge entity history: %w", err)
	}
	entry := Entry{
		Entity:    ref,
		FieldName: FieldAll,
		OldValue:  entity.DisplayString(),
		Action:    ActionDeleted,
		ChangedBy: actorFor(ctx, opts),
		ChangedAt: requestcontext.Now(ctx),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("record delete: %w", err)
	}
	r.count(1)
	return nil
}
