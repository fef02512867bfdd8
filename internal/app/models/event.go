package models

import "time"

type TimelineBuiltEvent struct {
	EventID          string            `json:"event_id"`
	EventType        string            `json:"event_type"`
	OccurredAt       time.Time         `json:"occurred_at"`
	PatientID        string            `json:"patient_id"`
	CompositionID    string            `json:"composition_id"`
	VersionID        string            `json:"version_id,omitempty"`
	HistoryFallback  bool              `json:"history_fallback"`
	EntryCount       int               `json:"entry_count"`
	UnscheduledCount int               `json:"unscheduled_count"`
	FailedCount      int               `json:"failed_count"`
	LatestBands      map[string]string `json:"latest_bands,omitempty"`
}
