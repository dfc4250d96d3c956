package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/nhatminh/trolyai/store"
)

func (d *DB) CreateSession(ctx context.Context, create *store.Session) (*store.Session, error) {
	stmt := `
		INSERT INTO session (uid, title, created_ts, updated_ts)
		VALUES (?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Title, create.CreatedTs, create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}
	return create, nil
}

func (d *DB) ListSessions(ctx context.Context, find *store.FindSession) ([]*store.Session, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}

	query := `
		SELECT id, uid, title, created_ts, updated_ts
		FROM session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	defer rows.Close()

	list := []*store.Session{}
	for rows.Next() {
		s := &store.Session{}
		if err := rows.Scan(&s.ID, &s.UID, &s.Title, &s.CreatedTs, &s.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan session")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (d *DB) UpdateSessionTitle(ctx context.Context, id int32, title string, updatedTs int64) error {
	_, err := d.db.ExecContext(ctx,
		"UPDATE session SET title = ?, updated_ts = ? WHERE id = ?",
		title, updatedTs, id)
	return errors.Wrap(err, "failed to update session title")
}

func (d *DB) TouchSession(ctx context.Context, id int32, updatedTs int64) error {
	_, err := d.db.ExecContext(ctx,
		"UPDATE session SET updated_ts = ? WHERE id = ?",
		updatedTs, id)
	return errors.Wrap(err, "failed to touch session")
}

func (d *DB) DeleteSession(ctx context.Context, id int32) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	return errors.Wrap(err, "failed to delete session")
}
