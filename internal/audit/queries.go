package audit

import (
	"fmt"
	"time"
)

// Event is one recorded timeline mutation.
type Event struct {
	ID        int64
	Op        string
	Branch    string
	RefID     string
	Detail    string
	CreatedAt time.Time
}

// Record appends an event to the trail.
func (l *Log) Record(ev Event) error {
	query := `
		INSERT INTO events (op, branch, ref_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := l.db.Exec(query, ev.Op, ev.Branch, ev.RefID, ev.Detail, created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive
// limit returns all events.
func (l *Log) Recent(limit int) ([]Event, error) {
	query := `
		SELECT id, op, branch, ref_id, detail, created_at
		FROM events
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.Op, &ev.Branch, &ev.RefID, &ev.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		ev.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for event %d: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}
