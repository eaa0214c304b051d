package eventstream

import (
	"time"

	"github.com/hexlockco/alembic/pkg/store"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeReportPersisted is emitted after a report is persisted.
	EventTypeReportPersisted = "alembic.report.persisted"
)

// ReportPersistedEvent is a transport-neutral event payload for a persisted
// report or analysis record.
type ReportPersistedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Report        ReportMeta  `json:"report"`
}

// EventSource identifies which surface produced the report.
type EventSource struct {
	Persona string `json:"persona,omitempty"`
	Surface string `json:"surface"`
}

// ReportMeta captures the persisted record without carrying its full body.
type ReportMeta struct {
	RecordID    string     `json:"record_id"`
	Kind        store.Kind `json:"kind"`
	Query       string     `json:"query"`
	ContentSize int        `json:"content_size"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewReportPersistedEvent builds a v1 event envelope for a stored record.
func NewReportPersistedEvent(eventID, persona, surface string, record *store.Record) *ReportPersistedEvent {
	return &ReportPersistedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeReportPersisted,
		EventID:       eventID,
		EmittedAt:     time.Now().UTC(),
		Source: EventSource{
			Persona: persona,
			Surface: surface,
		},
		Report: ReportMeta{
			RecordID:    record.ID,
			Kind:        record.Kind,
			Query:       record.Query,
			ContentSize: len(record.Content),
			CreatedAt:   record.CreatedAt,
		},
	}
}
