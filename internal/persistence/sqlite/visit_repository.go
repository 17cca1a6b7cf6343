package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/persistence"
)

// VisitRepository implements persistence.VisitRepository using SQLite. The
// scheduling core reads visits only; InsertVisit exists for the reporting
// subsystem's ingest path and for seeding.
type VisitRepository struct {
	db *DB
}

// NewVisitRepository creates a SQLite visit repository.
func NewVisitRepository(db *DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, technician_id, company_id, company_name, unit_name, sector_name, visit_date, start_time, end_time, next_visit_date, next_visit_shift`

// GetVisit retrieves a visit by id.
func (r *VisitRepository) GetVisit(ctx context.Context, id string) (persistence.Visit, error) {
	if id == "" {
		return persistence.Visit{}, persistence.ErrNotFound
	}

	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+visitColumns+` FROM visits WHERE id = ?`, id)
	return scanVisit(row)
}

// ListRealizedInRange returns a technician's visits realized inside
// [from, to], inclusive.
func (r *VisitRepository) ListRealizedInRange(ctx context.Context, technicianID string, from, to time.Time) ([]persistence.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE technician_id = ? AND visit_date >= ? AND visit_date <= ?
		ORDER BY visit_date ASC, id ASC
	`
	return r.queryVisits(ctx, query, technicianID, from.Format(dateLayout), to.Format(dateLayout))
}

// ListScheduledInRange returns a technician's visits whose follow-up date
// falls inside [from, to], inclusive.
func (r *VisitRepository) ListScheduledInRange(ctx context.Context, technicianID string, from, to time.Time) ([]persistence.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE technician_id = ? AND next_visit_date >= ? AND next_visit_date <= ?
		ORDER BY next_visit_date ASC, id ASC
	`
	return r.queryVisits(ctx, query, technicianID, from.Format(dateLayout), to.Format(dateLayout))
}

// ListScheduled returns visits with a pending follow-up. An empty technician
// id selects all technicians.
func (r *VisitRepository) ListScheduled(ctx context.Context, technicianID string) ([]persistence.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE next_visit_date IS NOT NULL`
	var args []any
	if technicianID != "" {
		query += ` AND technician_id = ?`
		args = append(args, technicianID)
	}
	query += ` ORDER BY next_visit_date ASC, id ASC`
	return r.queryVisits(ctx, query, args...)
}

// InsertVisit stores a visit row. Used by the ingest path and test seeding.
func (r *VisitRepository) InsertVisit(ctx context.Context, visit persistence.Visit) error {
	if visit.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var nextDate sql.NullString
	if visit.NextVisitDate != nil {
		nextDate = sql.NullString{String: visit.NextVisitDate.Format(dateLayout), Valid: true}
	}

	_, err := r.db.sql.ExecContext(ctx, query,
		visit.ID,
		visit.TechnicianID,
		visit.CompanyID,
		visit.CompanyName,
		nullString(visit.UnitName),
		nullString(visit.SectorName),
		visit.VisitDate.Format(dateLayout),
		visit.StartTime.Format(timeLayout),
		visit.EndTime.Format(timeLayout),
		nextDate,
		nullString(visit.NextVisitShift),
	)
	return mapError(err)
}

func (r *VisitRepository) queryVisits(ctx context.Context, query string, args ...any) ([]persistence.Visit, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var visits []persistence.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return visits, nil
}

func scanVisit(row rowScanner) (persistence.Visit, error) {
	var visit persistence.Visit
	var visitDate, startTime, endTime string
	var unitName, sectorName, nextDate, nextShift sql.NullString

	err := row.Scan(
		&visit.ID,
		&visit.TechnicianID,
		&visit.CompanyID,
		&visit.CompanyName,
		&unitName,
		&sectorName,
		&visitDate,
		&startTime,
		&endTime,
		&nextDate,
		&nextShift,
	)
	if err != nil {
		return persistence.Visit{}, mapError(err)
	}

	if unitName.Valid {
		visit.UnitName = &unitName.String
	}
	if sectorName.Valid {
		visit.SectorName = &sectorName.String
	}
	if nextShift.Valid {
		visit.NextVisitShift = &nextShift.String
	}

	if visit.VisitDate, err = time.Parse(dateLayout, visitDate); err != nil {
		return persistence.Visit{}, fmt.Errorf("parse visit_date: %w", err)
	}
	if nextDate.Valid {
		parsed, err := time.Parse(dateLayout, nextDate.String)
		if err != nil {
			return persistence.Visit{}, fmt.Errorf("parse next_visit_date: %w", err)
		}
		visit.NextVisitDate = &parsed
	}

	// Clock times anchor onto the visit date so hour comparisons work.
	if visit.StartTime, err = parseClock(visit.VisitDate, startTime); err != nil {
		return persistence.Visit{}, fmt.Errorf("parse start_time: %w", err)
	}
	if visit.EndTime, err = parseClock(visit.VisitDate, endTime); err != nil {
		return persistence.Visit{}, fmt.Errorf("parse end_time: %w", err)
	}

	return visit, nil
}

func parseClock(day time.Time, value string) (time.Time, error) {
	clock, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}
