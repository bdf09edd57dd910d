package models

import "time"

// SyncRun records one pull/push exchange with a remote store.
type SyncRun struct {
	ID         string     `json:"id"`
	Remote     string     `json:"remote"` // non-sensitive remote identifier
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Pulled     int        `json:"pulled"`
	Pushed     int        `json:"pushed"`
	Error      string     `json:"error,omitempty"`
}
