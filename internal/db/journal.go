package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/shortlist"
)

// NewBatchRecord converts a completed batch into its journal row.
func NewBatchRecord(batch *intake.Batch) (*BatchRecord, error) {
	rec := &BatchRecord{
		ID:         batch.ID,
		Generation: batch.Stamp.Generation,
		Message:    batch.Message,
		Files:      batch.Files,
		Status:     StatusSucceeded,
	}
	if rec.Files == nil {
		rec.Files = []string{}
	}
	if batch.Stamp.JobID != 0 {
		jobID := batch.Stamp.JobID
		rec.JobID = &jobID
	}
	if batch.Err != nil {
		msg := batch.Err.Error()
		rec.Status = StatusFailed
		rec.Error = &msg
	}
	if batch.Response != nil {
		rec.ResultCount = len(batch.Response.Results)
		raw, err := json.Marshal(batch.Response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		rec.Response = raw
	}
	return rec, nil
}

// NewShortlistEvents converts a bulk toggle outcome into one row per id.
func NewShortlistEvents(jobID int64, outcome *shortlist.Outcome) []ShortlistEvent {
	command := uuid.New()
	events := make([]ShortlistEvent, 0, outcome.Attempted())
	for _, id := range outcome.Succeeded {
		events = append(events, ShortlistEvent{
			ID: uuid.New(), CommandID: command, JobID: jobID, CandidateID: id,
			Shortlisted: outcome.Written[id], Status: StatusSucceeded,
		})
	}
	for _, f := range outcome.Failed {
		msg := f.Err.Error()
		events = append(events, ShortlistEvent{
			ID: uuid.New(), CommandID: command, JobID: jobID, CandidateID: f.ID,
			Shortlisted: outcome.Written[f.ID], Status: StatusFailed, Error: &msg,
		})
	}
	return events
}

// RecordBatch stores one evaluation batch.
func (db *DB) RecordBatch(ctx context.Context, batch *intake.Batch) error {
	rec, err := NewBatchRecord(batch)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO evaluation_batches (id, job_id, generation, message, files, status, error, result_count, response)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.JobID, int64(rec.Generation), rec.Message, rec.Files, rec.Status, rec.Error, rec.ResultCount, rec.Response,
	)
	if err != nil {
		return fmt.Errorf("failed to record batch %s: %w", rec.ID, err)
	}
	return nil
}

// RecordShortlistOutcome stores every per-id result of one bulk toggle in
// a single transaction.
func (db *DB) RecordShortlistOutcome(ctx context.Context, jobID int64, outcome *shortlist.Outcome) error {
	events := NewShortlistEvents(jobID, outcome)
	if len(events) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO shortlist_events (id, command_id, job_id, candidate_id, shortlisted, status, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.CommandID, e.JobID, e.CandidateID, e.Shortlisted, e.Status, e.Error,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to record shortlist outcome: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit shortlist outcome: %w", err)
	}

	log.Printf("[db] journaled shortlist command %s (%d ids)", events[0].CommandID, len(events))
	return nil
}

// ListBatches returns the most recent batches, newest first. jobID 0 lists
// batches of every job.
func (db *DB) ListBatches(ctx context.Context, jobID int64, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, generation, message, files, status, error, result_count, response, created_at
		 FROM evaluation_batches
		 WHERE $1::bigint = 0 OR job_id = $1::bigint
		 ORDER BY created_at DESC
		 LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var out []BatchRecord
	for rows.Next() {
		var rec BatchRecord
		var generation int64
		if err := rows.Scan(&rec.ID, &rec.JobID, &generation, &rec.Message, &rec.Files,
			&rec.Status, &rec.Error, &rec.ResultCount, &rec.Response, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		rec.Generation = uint64(generation)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListShortlistEvents returns the journaled toggles of a job, newest first.
func (db *DB) ListShortlistEvents(ctx context.Context, jobID int64) ([]ShortlistEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, command_id, job_id, candidate_id, shortlisted, status, error, created_at
		 FROM shortlist_events
		 WHERE job_id = $1
		 ORDER BY created_at DESC, candidate_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlist events: %w", err)
	}
	defer rows.Close()

	var out []ShortlistEvent
	for rows.Next() {
		var e ShortlistEvent
		if err := rows.Scan(&e.ID, &e.CommandID, &e.JobID, &e.CandidateID, &e.Shortlisted, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shortlist event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
