// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into audit log lines.
package queue

// BackupImportedQueue is the durable queue backup events are published to.
const BackupImportedQueue = "backup.imported"

// BackupImportedEvent is published after a backup import commits.  It
// carries the summary so consumers never have to query the catalog.
type BackupImportedEvent struct {
	PrincipalID      string `json:"principal_id"`
	Role             string `json:"role"`
	RequestID        string `json:"request_id,omitempty"`
	FilmRollsCreated int    `json:"film_rolls_created"`
	FilmRollsUpdated int    `json:"film_rolls_updated"`
	CamerasCreated   int    `json:"cameras_created"`
	CamerasUpdated   int    `json:"cameras_updated"`
	PrintsCreated    int    `json:"prints_created"`
	PrintsUpdated    int    `json:"prints_updated"`
	ImportedAt       string `json:"imported_at"` // RFC 3339, UTC
}
