package models

import "time"

// EventType represents the kind of an analysis event
type EventType string

const (
	EventAnalysisCompleted EventType = "analysis.completed"
	EventWarningRaised     EventType = "warning.raised"
	EventSnapshotSaved     EventType = "snapshot.saved"
)

// AnalysisEvent is the message published after an engine invocation
type AnalysisEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	DealID     string    `json:"deal_id"`
	AnalysisID string    `json:"analysis_id"`
	Score      float64   `json:"score"`
	Grade      Grade     `json:"grade"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Trend      Trend     `json:"trend"`
	Signal     string    `json:"signal,omitempty"`   // set for warning events
	Severity   string    `json:"severity,omitempty"` // set for warning events
	Timestamp  time.Time `json:"timestamp"`
}
