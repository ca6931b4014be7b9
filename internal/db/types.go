package db

import (
	"time"

	"github.com/google/uuid"
)

// Status values stored in the journal.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// BatchRecord is one evaluation batch as journaled.
type BatchRecord struct {
	ID          uuid.UUID `json:"id"`
	JobID       *int64    `json:"job_id,omitempty"`
	Generation  uint64    `json:"generation"`
	Message     string    `json:"message"`
	Files       []string  `json:"files"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	ResultCount int       `json:"result_count"`
	Response    []byte    `json:"response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortlistEvent is the result for one candidate of one bulk toggle.
// Rows of the same command share CommandID.
type ShortlistEvent struct {
	ID          uuid.UUID `json:"id"`
	CommandID   uuid.UUID `json:"command_id"`
	JobID       int64     `json:"job_id"`
	CandidateID int64     `json:"candidate_id"`
	Shortlisted bool      `json:"shortlisted"` // value sent to the API
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
