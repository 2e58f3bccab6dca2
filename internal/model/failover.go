package model

import "time"

// FailoverResult represents the backend answer to a failover request
type FailoverResult struct {
	Message string `json:"message"`
}

// FailoverRecord represents a confirmed failover request kept in the journal
type FailoverRecord struct {
	RequestedAt time.Time `json:"requested_at"`
	RequestedBy string    `json:"requested_by"` // "web", "cli"
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
}
