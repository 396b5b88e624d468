package appstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/services"
	"nriassist/internal/workflow"
)

// Store persists applications backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// TransitionRecord is one row of the transition log.
type TransitionRecord struct {
	Seq           int64
	ApplicationID string
	Role          catalog.Role
	From          catalog.Status
	To            catalog.Status
	OccurredAt    time.Time
}

const applicationColumns = "id, account_type, status, applicant_name, branch, submitted_date"

// Open initializes or connects to the application database. When
// store.seed is set and the database is empty, the demo applications are
// inserted.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("appstore: config is nil")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	store, err := OpenPath(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Seed {
		if _, err := store.Seed(context.Background(), workflow.SeedApplications()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

// OpenPath opens the database at path without seeding.
func OpenPath(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("appstore: database path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// Count returns the number of stored applications.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM applications").Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// Seed inserts apps when the store is empty and reports how many were
// inserted. A populated store is left alone.
func (s *Store) Seed(ctx context.Context, apps []workflow.Application) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	inserted := 0
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		inserted = 0
		for _, app := range apps {
			if err := insertApplication(ctx, tx, app, s.timestamp()); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed applications: %w", err)
	}
	return inserted, nil
}

// Insert appends app to the end of the collection.
func (s *Store) Insert(ctx context.Context, app workflow.Application) error {
	app.ID = strings.TrimSpace(app.ID)
	if app.ID == "" {
		return services.Wrap(services.ErrValidation, "appstore", "insert", "application id required", nil)
	}
	if err := s.inTx(ctx, func(tx *sql.Tx) error {
		return insertApplication(ctx, tx, app, s.timestamp())
	}); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func insertApplication(ctx context.Context, tx *sql.Tx, app workflow.Application, timestamp string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO applications (
            id, position, account_type, status, applicant_name, branch,
            submitted_date, created_at, updated_at
        ) VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM applications), ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		string(app.AccountType),
		string(app.Status),
		app.ApplicantName,
		app.Branch,
		nullableString(app.SubmittedDate),
		timestamp,
		timestamp,
	)
	return err
}

// List returns every application in collection order.
func (s *Store) List(ctx context.Context) ([]workflow.Application, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+applicationColumns+` FROM applications ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []workflow.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

// Get returns the application with id.
func (s *Store) Get(ctx context.Context, id string) (workflow.Application, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, strings.TrimSpace(id))
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workflow.Application{}, services.Wrap(services.ErrNotFound, "appstore", "get", fmt.Sprintf("application %q", id), nil)
	}
	if err != nil {
		return workflow.Application{}, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// UpdateStatus persists change. The write only lands when the stored status
// still equals change.From; otherwise it fails with ErrInvalidTransition, or
// ErrNotFound for an unknown id. The change is appended to the transition
// log in the same transaction.
func (s *Store) UpdateStatus(ctx context.Context, change workflow.Change) error {
	id := strings.TrimSpace(change.Application.ID)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.timestamp()
		res, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(change.To), now, id, string(change.From),
		)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var current string
			scanErr := tx.QueryRowContext(ctx, `SELECT status FROM applications WHERE id = ?`, id).Scan(&current)
			if errors.Is(scanErr, sql.ErrNoRows) {
				return services.Wrap(services.ErrNotFound, "appstore", "update status", fmt.Sprintf("application %q", id), nil)
			}
			if scanErr != nil {
				return scanErr
			}
			return services.Wrap(
				services.ErrInvalidTransition,
				"appstore",
				"update status",
				fmt.Sprintf("application %s is %q, expected %q", id, current, change.From),
				nil,
			)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transitions (application_id, role, from_status, to_status, occurred_at)
             VALUES (?, ?, ?, ?, ?)`,
			id, string(change.Role), string(change.From), string(change.To), now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// History returns the transition log for id, oldest first.
func (s *Store) History(ctx context.Context, id string) ([]TransitionRecord, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT seq, application_id, role, from_status, to_status, occurred_at
         FROM transitions WHERE application_id = ? ORDER BY seq`,
		strings.TrimSpace(id),
	)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var records []TransitionRecord
	for rows.Next() {
		var (
			rec        TransitionRecord
			role, from string
			to, raw    string
		)
		if err := rows.Scan(&rec.Seq, &rec.ApplicationID, &role, &from, &to, &raw); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		rec.Role = catalog.Role(role)
		rec.From = catalog.Status(from)
		rec.To = catalog.Status(to)
		rec.OccurredAt = parseTime(raw)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}
	return records, nil
}
