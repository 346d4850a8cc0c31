// Package repository holds the SQL-backed stores. The escalation
// pipeline only ever reads from here; reminder rows are written by the
// scheduling front end.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
)

// ReminderRepository stores scheduled care reminders.
type ReminderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReminderRepository creates the repository.
func NewReminderRepository(db *sql.DB, logger *zap.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the reminders table when missing.
func (r *ReminderRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reminders (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			scheduled_time TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create reminders table: %w", err)
	}
	return nil
}

// CreateReminder inserts a reminder and returns its id.
func (r *ReminderRepository) CreateReminder(ctx context.Context, title, description string, scheduledTime time.Time) (int64, error) {
	if title == "" {
		return 0, fmt.Errorf("title is required")
	}
	if scheduledTime.IsZero() {
		return 0, fmt.Errorf("scheduled_time is required")
	}

	query := `
		INSERT INTO reminders (title, description, scheduled_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, title, description, scheduledTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create reminder: %w", err)
	}

	return id, nil
}

// ListAll returns every reminder ordered by schedule.
func (r *ReminderRepository) ListAll(ctx context.Context) ([]models.ReminderRecord, error) {
	query := `
		SELECT id, title, description, scheduled_time
		FROM reminders
		ORDER BY scheduled_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ListDue returns reminders that became due within the minute ending
// at the given time. Read-only: due reminders are folded into alert
// text, never acknowledged or deleted here.
func (r *ReminderRepository) ListDue(ctx context.Context, at time.Time) ([]models.ReminderRecord, error) {
	if at.IsZero() {
		return nil, fmt.Errorf("at time is required")
	}

	query := `
		SELECT id, title, description, scheduled_time
		FROM reminders
		WHERE scheduled_time <= $1
		  AND scheduled_time > $2
		ORDER BY scheduled_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, at, at.Add(-time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

func scanReminders(rows *sql.Rows) ([]models.ReminderRecord, error) {
	reminders := []models.ReminderRecord{}
	for rows.Next() {
		var rec models.ReminderRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.ScheduledTime); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return reminders, nil
}
