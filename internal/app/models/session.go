package models

import "time"

// Session carries the per-user timeline state between requests.
type Session struct {
	SessionID      string    `json:"session_id"`
	PatientID      string    `json:"patient_id"`
	HistoryVersion string    `json:"history_version,omitempty"`
	Timeline       *Timeline `json:"timeline,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	TimeModel
}

// Holds reports whether the session already has a timeline for the given
// patient and history version.
func (s *Session) Holds(patientID, historyVersion string) bool {
	return s != nil &&
		s.Timeline != nil &&
		s.PatientID == patientID &&
		s.HistoryVersion == historyVersion
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
