package models

import "time"

// BackupVersion tags the export format
const BackupVersion = "1.0.0"

// Backup is the combined export document
type Backup struct {
	Tasks      []Task    `json:"tasks"`
	Events     []Event   `json:"events"`
	Notes      []Note    `json:"notes"`
	Settings   Settings  `json:"settings"`
	ExportedAt time.Time `json:"exportedAt"`
	Version    string    `json:"version"`
}
