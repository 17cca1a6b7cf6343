package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/fieldvisit-scheduler/internal/persistence"
)

// UserDirectory implements persistence.UserDirectory using SQLite. The
// directory is read-mostly; InsertUser exists for provisioning and seeding.
type UserDirectory struct {
	db *DB
}

// NewUserDirectory creates a SQLite user directory.
func NewUserDirectory(db *DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// GetUser retrieves a directory record by id.
func (r *UserDirectory) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	var user persistence.User
	var isAdmin int
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, display_name, is_admin FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.DisplayName, &isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}
	user.IsAdmin = isAdmin != 0
	return user, nil
}

// DisplayNames resolves the given ids to display names. Unknown ids are
// silently absent from the result.
func (r *UserDirectory) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT id, display_name FROM users WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapError(err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return names, nil
}

// InsertUser stores a directory record. Used by provisioning and test seeding.
func (r *UserDirectory) InsertUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	isAdmin := 0
	if user.IsAdmin {
		isAdmin = 1
	}
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO users (id, display_name, is_admin) VALUES (?, ?, ?)`,
		user.ID, user.DisplayName, isAdmin)
	return mapError(err)
}
