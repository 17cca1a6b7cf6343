package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/persistence"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CalendarEntryRepository implements persistence.CalendarEntryRepository
// using SQLite.
type CalendarEntryRepository struct {
	db *DB
}

// NewCalendarEntryRepository creates a SQLite calendar entry repository.
func NewCalendarEntryRepository(db *DB) *CalendarEntryRepository {
	return &CalendarEntryRepository{db: db}
}

const calendarEntryColumns = `id, technician_id, kind, title, description, event_date, shift, visit_id, original_date, client_name, observation, created_at, updated_at`

// CreateEntry inserts a new calendar entry. The insert and the read-back run
// in one transaction so the returned entry is exactly the stored row, with
// dates and timestamps in their canonical column form.
func (r *CalendarEntryRepository) CreateEntry(ctx context.Context, entry persistence.CalendarEntry) (persistence.CalendarEntry, error) {
	if entry.ID == "" {
		return persistence.CalendarEntry{}, persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO calendar_entries (` + calendarEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var stored persistence.CalendarEntry
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			entry.ID,
			entry.TechnicianID,
			entry.Kind,
			entry.Title,
			entry.Description,
			entry.EventDate.Format(dateLayout),
			entry.Shift,
			nullString(entry.VisitID),
			nullDate(entry.OriginalDate),
			nullString(entry.ClientName),
			nullString(entry.Observation),
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+calendarEntryColumns+` FROM calendar_entries WHERE id = ?`, entry.ID)
		stored, err = scanCalendarEntry(row)
		return err
	})
	if err != nil {
		return persistence.CalendarEntry{}, err
	}
	return stored, nil
}

// UpdateEntry rewrites the mutable columns of an existing entry. Kind and
// visit link are written too so a reschedule upsert stays a single statement.
// Like CreateEntry, the write and the read-back share one transaction.
func (r *CalendarEntryRepository) UpdateEntry(ctx context.Context, entry persistence.CalendarEntry) (persistence.CalendarEntry, error) {
	if entry.ID == "" {
		return persistence.CalendarEntry{}, persistence.ErrNotFound
	}

	query := `
		UPDATE calendar_entries
		SET kind = ?, title = ?, description = ?, event_date = ?, shift = ?,
		    visit_id = ?, original_date = ?, client_name = ?, observation = ?, updated_at = ?
		WHERE id = ?
	`

	var stored persistence.CalendarEntry
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			entry.Kind,
			entry.Title,
			entry.Description,
			entry.EventDate.Format(dateLayout),
			entry.Shift,
			nullString(entry.VisitID),
			nullDate(entry.OriginalDate),
			nullString(entry.ClientName),
			nullString(entry.Observation),
			entry.UpdatedAt.UTC().Format(time.RFC3339),
			entry.ID,
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+calendarEntryColumns+` FROM calendar_entries WHERE id = ?`, entry.ID)
		stored, err = scanCalendarEntry(row)
		return err
	})
	if err != nil {
		return persistence.CalendarEntry{}, err
	}
	return stored, nil
}

// GetEntry retrieves an entry by id.
func (r *CalendarEntryRepository) GetEntry(ctx context.Context, id string) (persistence.CalendarEntry, error) {
	if id == "" {
		return persistence.CalendarEntry{}, persistence.ErrNotFound
	}

	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+calendarEntryColumns+` FROM calendar_entries WHERE id = ?`, id)
	return scanCalendarEntry(row)
}

// DeleteEntry removes an entry by id.
func (r *CalendarEntryRepository) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.db.sql.ExecContext(ctx, `DELETE FROM calendar_entries WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetEntryByVisit retrieves the entry linked to the given visit. The unique
// index on visit_id guarantees at most one row.
func (r *CalendarEntryRepository) GetEntryByVisit(ctx context.Context, visitID string) (persistence.CalendarEntry, error) {
	if visitID == "" {
		return persistence.CalendarEntry{}, persistence.ErrNotFound
	}

	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+calendarEntryColumns+` FROM calendar_entries WHERE visit_id = ?`, visitID)
	return scanCalendarEntry(row)
}

// ListEntries returns entries ordered by event date then id. An empty
// technician id selects all technicians.
func (r *CalendarEntryRepository) ListEntries(ctx context.Context, technicianID string) ([]persistence.CalendarEntry, error) {
	query := `SELECT ` + calendarEntryColumns + ` FROM calendar_entries`
	var args []any
	if technicianID != "" {
		query += ` WHERE technician_id = ?`
		args = append(args, technicianID)
	}
	query += ` ORDER BY event_date ASC, id ASC`
	return r.queryEntries(ctx, query, args...)
}

// ListEntriesByDate returns a technician's entries on a single day.
func (r *CalendarEntryRepository) ListEntriesByDate(ctx context.Context, technicianID string, date time.Time) ([]persistence.CalendarEntry, error) {
	query := `
		SELECT ` + calendarEntryColumns + `
		FROM calendar_entries
		WHERE technician_id = ? AND event_date = ?
		ORDER BY shift ASC, id ASC
	`
	return r.queryEntries(ctx, query, technicianID, date.Format(dateLayout))
}

// ListEntriesByDateAndShift returns a technician's entries in one slot.
func (r *CalendarEntryRepository) ListEntriesByDateAndShift(ctx context.Context, technicianID string, date time.Time, shift string) ([]persistence.CalendarEntry, error) {
	query := `
		SELECT ` + calendarEntryColumns + `
		FROM calendar_entries
		WHERE technician_id = ? AND event_date = ? AND shift = ?
		ORDER BY id ASC
	`
	return r.queryEntries(ctx, query, technicianID, date.Format(dateLayout), shift)
}

// ListEntriesInRange returns a technician's entries with event_date inside
// [from, to], inclusive.
func (r *CalendarEntryRepository) ListEntriesInRange(ctx context.Context, technicianID string, from, to time.Time) ([]persistence.CalendarEntry, error) {
	query := `
		SELECT ` + calendarEntryColumns + `
		FROM calendar_entries
		WHERE technician_id = ? AND event_date >= ? AND event_date <= ?
		ORDER BY event_date ASC, id ASC
	`
	return r.queryEntries(ctx, query, technicianID, from.Format(dateLayout), to.Format(dateLayout))
}

func (r *CalendarEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]persistence.CalendarEntry, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.CalendarEntry
	for rows.Next() {
		entry, err := scanCalendarEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalendarEntry(row rowScanner) (persistence.CalendarEntry, error) {
	var entry persistence.CalendarEntry
	var eventDate, createdAt, updatedAt string
	var visitID, originalDate, clientName, observation sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.TechnicianID,
		&entry.Kind,
		&entry.Title,
		&entry.Description,
		&eventDate,
		&entry.Shift,
		&visitID,
		&originalDate,
		&clientName,
		&observation,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.CalendarEntry{}, mapError(err)
	}

	if visitID.Valid {
		entry.VisitID = &visitID.String
	}
	if clientName.Valid {
		entry.ClientName = &clientName.String
	}
	if observation.Valid {
		entry.Observation = &observation.String
	}

	if entry.EventDate, err = time.Parse(dateLayout, eventDate); err != nil {
		return persistence.CalendarEntry{}, fmt.Errorf("parse event_date: %w", err)
	}
	if originalDate.Valid {
		parsed, err := time.Parse(dateLayout, originalDate.String)
		if err != nil {
			return persistence.CalendarEntry{}, fmt.Errorf("parse original_date: %w", err)
		}
		entry.OriginalDate = &parsed
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.CalendarEntry{}, fmt.Errorf("parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.CalendarEntry{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return entry, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullDate(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.Format(dateLayout), Valid: true}
}
