package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Action classifies a ledger entry.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// FieldAll marks the synthetic entries written on creation and deletion,
// which carry no field-level diff.
const FieldAll = "__all__"

// EntityKind tags which table an EntityRef points into. The ledger references
// entities through this explicit sum type instead of a dynamic type registry;
// readers match on the kind exhaustively.
type EntityKind string

const (
	KindEmployee         EntityKind = "employee"
	KindEmploymentPeriod EntityKind = "employment_period"
	KindDocument         EntityKind = "document"
	KindWorkPermit       EntityKind = "work_permit"
	KindCardSubmission   EntityKind = "card_submission"
	KindContract         EntityKind = "contract"
	KindSanepid          EntityKind = "sanepid"
	KindContact          EntityKind = "contact"
)

// EntityRef identifies one tracked row.
type EntityRef struct {
	Kind EntityKind
	ID   int64
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Entry is one row of the change ledger: a single changed field of a single
// mutation, or a synthetic creation/deletion marker. Entries are append-only
// and never updated.
type Entry struct {
	ID        int64
	Entity    EntityRef
	FieldName string
	OldValue  string
	NewValue  string
	Action    Action
	ChangedBy *int64
	ChangedAt time.Time
}

// Field is one named, already-normalized value of an entity snapshot.
type Field struct {
	Name  string
	Value string
}

// Snapshot is the ordered persisted state of an entity at one point in time.
// Entities expose it through the Auditable interface; auto-maintained
// timestamps are deliberately not part of any snapshot so they never produce
// diff noise.
type Snapshot []Field

// Auditable is implemented by every tracked entity.
type Auditable interface {
	HistoryRef() EntityRef
	// Snapshot returns the entity's tracked fields with normalized values.
	Snapshot() Snapshot
	// DisplayString is the human-readable form stored in deletion markers and
	// used when another entity references this one in a diff.
	DisplayString() string
}

// Diff returns one updated-action Entry per field whose normalized value
// differs between the two snapshots. Fields present in after but absent from
// before (or vice versa) are compared against the empty string.
func Diff(ref EntityRef, before, after Snapshot) []Entry {
	old := make(map[string]string, len(before))
	for _, f := range before {
		old[f.Name] = f.Value
	}

	var entries []Entry
	for _, f := range after {
		if old[f.Name] == f.Value {
			continue
		}
		entries = append(entries, Entry{
			Entity:    ref,
			FieldName: f.Name,
			OldValue:  old[f.Name],
			NewValue:  f.Value,
			Action:    ActionUpdated,
		})
	}
	return entries
}

// -----------------------------------------------------------------------------
// Value normalization
//
// Comparison and storage both use the normalized textual form: two values are
// "changed" iff these forms differ.
// -----------------------------------------------------------------------------

// Text normalizes an optional string: nil becomes empty, everything else is
// trimmed.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Bool normalizes a boolean to its textual form.
func Bool(b bool) string {
	return strconv.FormatBool(b)
}

// NullBool normalizes an optional boolean; nil becomes empty.
func NullBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// Int64 normalizes a numeric value to its textual form.
func Int64(n int64) string {
	return strconv.FormatInt(n, 10)
}

// NullInt normalizes an optional numeric value; nil becomes empty.
func NullInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// Date normalizes an optional date to ISO form; nil becomes empty.
func Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
